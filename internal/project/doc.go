// Package project discovers the user maps and mods under the game directory
// and implements the filesystem operations the launcher offers on them:
// scaffolding from templates, cleaning packed XPak files, and deletion.
package project

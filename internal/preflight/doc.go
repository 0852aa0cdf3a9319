// Package preflight provides readiness checks for the directories and tool
// executables the launcher depends on.
//
// The CLI "modlauncher doctor" command renders every check; build and convert
// commands run CheckSystemDeps for the tools they are about to start.
package preflight

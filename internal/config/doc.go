// Package config loads, normalizes, and validates modlauncher configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and falls back to the TA_GAME_PATH and TA_TOOLS_PATH environment
// variables the mod tools installer sets. Tool executables are configured
// relative to the tools or game directory and resolved through the accessor
// methods so callers never join paths by hand.
package config

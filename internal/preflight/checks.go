package preflight

import (
	"fmt"
	"os"

	"modlauncher/internal/config"
	"modlauncher/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when writable is set.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path, writable); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	if writable {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckSystemDeps evaluates the configured tool executables.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Asset database",
			Command:     cfg.UpdaterBinary(),
			Description: "Runs before every compile, light or link",
		},
		{
			Name:        "Map compiler",
			Command:     cfg.CompilerBinary(),
			Description: "Required to compile maps",
		},
		{
			Name:        "Radiant",
			Command:     cfg.RadiantBinary(),
			Description: "Required to bake lighting",
		},
		{
			Name:        "Linker",
			Command:     cfg.LinkerBinary(),
			Description: "Required to link maps and mods",
		},
		{
			Name:        "Game",
			Command:     cfg.GameBinary(),
			Description: "Required to run maps and mods",
		},
		{
			Name:        "Export2Bin",
			Command:     cfg.Export2BinBinary(),
			Description: "Required to convert export files",
		},
		{
			Name:        "Asset Editor",
			Command:     cfg.AssetEditorBinary(),
			Description: "Launched by the asset-editor command",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

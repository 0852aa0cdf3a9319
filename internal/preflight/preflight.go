package preflight

import (
	"strings"

	"modlauncher/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Game directory", cfg.Paths.GameDir, false),
		CheckDirectoryAccess("Tools directory", cfg.Paths.ToolsDir, false),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, true),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, true),
	}
	if dir := strings.TrimSpace(cfg.Export2Bin.TargetDir); dir != "" {
		results = append(results, CheckDirectoryAccess("Export2Bin target", dir, true))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

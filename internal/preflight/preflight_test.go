package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"modlauncher/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Unconfigured(t *testing.T) {
	result := CheckDirectoryAccess("test", "", false)
	if result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.GameDir = filepath.Join(base, "game")
	cfg.Paths.ToolsDir = cfg.Paths.GameDir
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Export2Bin.TargetDir = filepath.Join(base, "missing")
	for _, dir := range []string{cfg.Paths.GameDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(&cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Export2Bin target" {
		t.Fatalf("unexpected failures: %#v", failed)
	}
	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.GameDir = t.TempDir()
	cfg.Paths.ToolsDir = cfg.Paths.GameDir
	linker := cfg.LinkerBinary()
	if err := os.MkdirAll(filepath.Dir(linker), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(linker, []byte("MZ"), 0o644); err != nil {
		t.Fatal(err)
	}

	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 7 {
		t.Fatalf("expected 7 statuses, got %d", len(statuses))
	}
	for _, s := range statuses {
		if s.Name == "Linker" && !s.Available {
			t.Fatalf("expected linker available: %#v", s)
		}
		if s.Name == "Game" && s.Available {
			t.Fatalf("expected game missing: %#v", s)
		}
	}
}

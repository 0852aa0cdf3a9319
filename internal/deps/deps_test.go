package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "linker_modtools.exe")
	if err := os.WriteFile(present, []byte("MZ"), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Linker", Command: present},
		{Name: "Compiler", Command: filepath.Join(binDir, "cod2map64.exe")},
		{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected linker to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing compiler with detail, got %#v", results[1])
	}
	if results[2].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[3].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[3].Detail)
	}

	missing := Missing(results)
	if len(missing) != 2 || missing[0].Name != "Compiler" || missing[1].Name != "Blank" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
}

func TestCheckBinariesRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	results := CheckBinaries([]Requirement{{Name: "Dir", Command: dir}})
	if results[0].Available {
		t.Fatal("expected directory to be reported unavailable")
	}
}

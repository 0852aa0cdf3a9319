package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"modlauncher/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The game and tools directories exist but are empty.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.GameDir = filepath.Join(base, "game")
	cfgVal.Paths.ToolsDir = filepath.Join(base, "tools")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	for _, dir := range []string{cfgVal.Paths.GameDir, cfgVal.Paths.ToolsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithSharedToolsDir points the tools directory at the game directory, the
// layout of a default mod tools install.
func WithSharedToolsDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.ToolsDir = b.cfg.Paths.GameDir
	}
}

// WithStubbedTools writes empty executables for every configured tool so
// existence checks pass.
func WithStubbedTools() ConfigOption {
	return func(b *configBuilder) {
		tools := []string{
			b.cfg.UpdaterBinary(),
			b.cfg.CompilerBinary(),
			b.cfg.RadiantBinary(),
			b.cfg.LinkerBinary(),
			b.cfg.AssetEditorBinary(),
			b.cfg.GameBinary(),
			b.cfg.Export2BinBinary(),
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, target := range tools {
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				b.t.Fatalf("mkdir for %s: %v", target, err)
			}
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", target, err)
			}
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

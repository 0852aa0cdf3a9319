package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modlauncher/internal/config"
	"modlauncher/internal/testsupport"
)

func TestHelperProcess(t *testing.T) { testsupport.RunHelperProcess() }

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

// setupCLITestEnv writes a config whose export2bin converter is the test
// binary itself, upper-casing its input.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NO_COLOR", "1")
	t.Setenv(testsupport.HelperEnv, "1")

	cfg.Export2Bin.Binary = os.Args[0]
	cfg.Export2Bin.Args = []string{"-test.run=TestHelperProcess", "--", "upper"}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

// helperTask renders a recipe task that re-executes the test binary.
func helperTask(mode string, args ...string) string {
	quoted := []string{`"-test.run=TestHelperProcess"`, `"--"`, `"` + mode + `"`}
	for _, a := range args {
		quoted = append(quoted, `"`+a+`"`)
	}
	return "  - program: " + `"` + filepath.ToSlash(os.Args[0]) + `"` + "\n    args: [" + strings.Join(quoted, ", ") + "]\n"
}

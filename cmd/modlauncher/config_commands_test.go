package main

import (
	"os"
	"path/filepath"
	"testing"

	"modlauncher/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}

func TestConfigShowAndPath(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.GameDir)

	out, _, err = runCLI(t, env, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, env.configPath)
}

func TestSettingsAndDvarsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "settings", "set", "build_language", "French"); err != nil {
		t.Fatalf("settings set: %v", err)
	}
	out, _, err := runCLI(t, env, "settings", "get", "build_language")
	if err != nil {
		t.Fatalf("settings get: %v", err)
	}
	requireContains(t, out, "french")

	if _, _, err := runCLI(t, env, "settings", "set", "colour", "red"); err == nil {
		t.Fatal("expected unknown key error")
	}
	if _, _, err := runCLI(t, env, "dvars", "set", "developer", "7"); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, _, err := runCLI(t, env, "dvars", "set", "splitscreen", "yes"); err != nil {
		t.Fatalf("dvars set: %v", err)
	}

	out, _, err = runCLI(t, env, "settings", "list")
	if err != nil {
		t.Fatalf("settings list: %v", err)
	}
	requireContains(t, out, "dvar_splitscreen")
	requireContains(t, out, "stored")

	if _, _, err := runCLI(t, env, "dvars", "unset", "splitscreen"); err != nil {
		t.Fatalf("dvars unset: %v", err)
	}
	out, _, err = runCLI(t, env, "dvars", "list")
	if err != nil {
		t.Fatalf("dvars list: %v", err)
	}
	requireContains(t, out, "splitscreen_playerCount")
}

func TestDoctorReportsMissingTools(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail without tools")
	}
	requireContains(t, out, "FAIL")

	stubbed := setupCLITestEnv(t, testsupport.WithStubbedTools())
	out, _, err = runCLI(t, stubbed, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "All checks passed")
}

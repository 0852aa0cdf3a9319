package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	GameDir  string `toml:"game_dir"`
	ToolsDir string `toml:"tools_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Tools lists tool executables. Game is relative to the game directory, the
// rest to the tools directory. Absolute paths are used as-is.
type Tools struct {
	Updater     string `toml:"updater"`
	Compiler    string `toml:"compiler"`
	Radiant     string `toml:"radiant"`
	Linker      string `toml:"linker"`
	AssetEditor string `toml:"asset_editor"`
	Game        string `toml:"game"`
}

// Build holds defaults for the build command.
type Build struct {
	Language     string `toml:"language"`
	CompileMode  string `toml:"compile_mode"`
	LightQuality string `toml:"light_quality"`
	IgnoreErrors bool   `toml:"ignore_errors"`
}

// Export2Bin configures the converter.
type Export2Bin struct {
	Binary    string   `toml:"binary"`
	Args      []string `toml:"args"`
	TargetDir string   `toml:"target_dir"`
	Overwrite bool     `toml:"overwrite"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for modlauncher.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Build      Build      `toml:"build"`
	Export2Bin Export2Bin `toml:"export2bin"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ToolPath resolves an executable relative to the tools directory.
func (c *Config) ToolPath(rel string) string {
	return resolveUnder(c.Paths.ToolsDir, rel)
}

// GamePath resolves a path relative to the game directory.
func (c *Config) GamePath(rel string) string {
	return resolveUnder(c.Paths.GameDir, rel)
}

// UpdaterBinary returns the asset database updater executable.
func (c *Config) UpdaterBinary() string { return c.ToolPath(c.Tools.Updater) }

// CompilerBinary returns the map compiler executable.
func (c *Config) CompilerBinary() string { return c.ToolPath(c.Tools.Compiler) }

// RadiantBinary returns the level editor executable, which also bakes lighting.
func (c *Config) RadiantBinary() string { return c.ToolPath(c.Tools.Radiant) }

// LinkerBinary returns the linker executable.
func (c *Config) LinkerBinary() string { return c.ToolPath(c.Tools.Linker) }

// AssetEditorBinary returns the asset editor executable.
func (c *Config) AssetEditorBinary() string { return c.ToolPath(c.Tools.AssetEditor) }

// GameBinary returns the game executable.
func (c *Config) GameBinary() string { return c.GamePath(c.Tools.Game) }

// Export2BinBinary returns the converter executable.
func (c *Config) Export2BinBinary() string { return c.ToolPath(c.Export2Bin.Binary) }

// StatePath returns the state database location.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.StateDir, "state.db")
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "modlauncher.lock")
}

func resolveUnder(base, rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) || base == "" {
		return rel
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

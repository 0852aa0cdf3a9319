package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	compileModes   = []string{"ents", "full"}
	lightQualities = []string{"low", "medium", "high"}
	logLevels      = []string{"debug", "info", "warn", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.GameDir == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("paths.game_dir is required. Set %s env var or edit %s (create with 'modlauncher config init')", GameDirEnv, defaultPath)
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateBuild() error {
	if !slices.Contains(compileModes, c.Build.CompileMode) {
		return fmt.Errorf("build.compile_mode must be one of %v, got %q", compileModes, c.Build.CompileMode)
	}
	if !slices.Contains(lightQualities, c.Build.LightQuality) {
		return fmt.Errorf("build.light_quality must be one of %v, got %q", lightQualities, c.Build.LightQuality)
	}
	return nil
}

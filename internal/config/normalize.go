package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeBuild()
	if err := c.normalizeExport2Bin(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.GameDir) == "" {
		if value, ok := os.LookupEnv(GameDirEnv); ok {
			c.Paths.GameDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.ToolsDir) == "" {
		if value, ok := os.LookupEnv(ToolsDirEnv); ok {
			c.Paths.ToolsDir = strings.TrimSpace(value)
		}
	}
	// The mod tools ship inside the game installation.
	if strings.TrimSpace(c.Paths.ToolsDir) == "" {
		c.Paths.ToolsDir = c.Paths.GameDir
	}

	var err error
	if c.Paths.GameDir, err = expandPath(strings.TrimSpace(c.Paths.GameDir)); err != nil {
		return fmt.Errorf("paths.game_dir: %w", err)
	}
	if c.Paths.ToolsDir, err = expandPath(strings.TrimSpace(c.Paths.ToolsDir)); err != nil {
		return fmt.Errorf("paths.tools_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	defaults := Default().Tools
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Tools.Updater, defaults.Updater)
	fill(&c.Tools.Compiler, defaults.Compiler)
	fill(&c.Tools.Radiant, defaults.Radiant)
	fill(&c.Tools.Linker, defaults.Linker)
	fill(&c.Tools.AssetEditor, defaults.AssetEditor)
	fill(&c.Tools.Game, defaults.Game)
}

func (c *Config) normalizeBuild() {
	c.Build.Language = strings.ToLower(strings.TrimSpace(c.Build.Language))
	if c.Build.Language == "" {
		c.Build.Language = defaultLanguage
	}
	c.Build.CompileMode = strings.ToLower(strings.TrimSpace(c.Build.CompileMode))
	if c.Build.CompileMode == "" {
		c.Build.CompileMode = defaultCompileMode
	}
	c.Build.LightQuality = strings.ToLower(strings.TrimSpace(c.Build.LightQuality))
	if c.Build.LightQuality == "" {
		c.Build.LightQuality = defaultLightQuality
	}
}

func (c *Config) normalizeExport2Bin() error {
	c.Export2Bin.Binary = strings.TrimSpace(c.Export2Bin.Binary)
	if c.Export2Bin.Binary == "" {
		c.Export2Bin.Binary = Default().Export2Bin.Binary
	}
	args := make([]string, 0, len(c.Export2Bin.Args))
	for _, arg := range c.Export2Bin.Args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	if len(args) == 0 {
		args = Default().Export2Bin.Args
	}
	c.Export2Bin.Args = args

	if strings.TrimSpace(c.Export2Bin.TargetDir) != "" {
		var err error
		if c.Export2Bin.TargetDir, err = expandPath(strings.TrimSpace(c.Export2Bin.TargetDir)); err != nil {
			return fmt.Errorf("export2bin.target_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

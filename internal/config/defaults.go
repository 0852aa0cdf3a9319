package config

const (
	defaultConfigPath   = "~/.config/modlauncher/config.toml"
	projectConfigName   = "modlauncher.toml"
	defaultStateDir     = "~/.local/share/modlauncher"
	defaultLogDir       = "~/.local/share/modlauncher/logs"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultRetention    = 30
	defaultLanguage     = "english"
	defaultCompileMode  = "full"
	defaultLightQuality = "medium"

	// GameDirEnv and ToolsDirEnv are set by the mod tools installer.
	GameDirEnv  = "TA_GAME_PATH"
	ToolsDirEnv = "TA_TOOLS_PATH"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			Updater:     "gdtdb/gdtdb.exe",
			Compiler:    "bin/cod2map64.exe",
			Radiant:     "bin/radiant_modtools.exe",
			Linker:      "bin/linker_modtools.exe",
			AssetEditor: "bin/AssetEditor_modtools.exe",
			Game:        "BlackOps3.exe",
		},
		Build: Build{
			Language:     defaultLanguage,
			CompileMode:  defaultCompileMode,
			LightQuality: defaultLightQuality,
		},
		Export2Bin: Export2Bin{
			Binary: "bin/export2bin.exe",
			Args:   []string{"/piped"},
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetention,
		},
	}
}

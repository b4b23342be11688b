package config

const (
	defaultConfigPath       = "~/.config/exifglass/config.toml"
	projectConfigName       = "exifglass.toml"
	defaultExtractDir       = "~/.local/share/exifglass/extract"
	defaultLogDir           = "~/.local/share/exifglass/logs"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultTimeoutSeconds   = 60
	defaultCacheMaxAgeDays  = 90
	defaultBatchConcurrency = 4

	envExecutable = "EXIFGLASS_EXIFTOOL"
	envArguments  = "EXIFGLASS_EXIFTOOL_ARGS"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Exiftool: Exiftool{
			ExtractDir:     defaultExtractDir,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Cache: Cache{
			Path:       defaultCachePath(),
			MaxAgeDays: defaultCacheMaxAgeDays,
		},
		Batch: Batch{
			Concurrency: defaultBatchConcurrency,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"exifglass/internal/textutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Exiftool contains settings for the external exiftool process.
type Exiftool struct {
	Executable     string `toml:"executable"`
	Arguments      string `toml:"arguments"`
	ExtractDir     string `toml:"extract_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Paths contains directories used for logs and temporary copies.
type Paths struct {
	LogDir  string `toml:"log_dir"`
	TempDir string `toml:"temp_dir"`
}

// Cache contains configuration for the parsed-read cache.
type Cache struct {
	Enabled    bool   `toml:"enabled"` // Default: false
	Path       string `toml:"path"`    // Default: ~/.cache/exifglass/tags.db
	MaxAgeDays int    `toml:"max_age_days"`
}

// Batch contains configuration for multi-file exports.
type Batch struct {
	Concurrency int `toml:"concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for exifglass.
type Config struct {
	Exiftool Exiftool `toml:"exiftool"`
	Paths    Paths    `toml:"paths"`
	Cache    Cache    `toml:"cache"`
	Batch    Batch    `toml:"batch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
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
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
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

// EnsureDirectories creates the directories the CLI writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Exiftool.ExtractDir, c.Paths.LogDir, c.Paths.TempDir}
	if c.Cache.Enabled && c.Cache.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Cache.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExiftoolArguments splits exiftool.arguments shell-style. Load has already
// rejected values that fail to split.
func (c *Config) ExiftoolArguments() []string {
	args, err := textutil.SplitArgs(c.Exiftool.Arguments)
	if err != nil {
		return nil
	}
	return args
}

// ExiftoolTimeout returns the per-run timeout; zero disables it.
func (c *Config) ExiftoolTimeout() time.Duration {
	return time.Duration(c.Exiftool.TimeoutSeconds) * time.Second
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

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "exifglass", "tags.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/exifglass/tags.db"
	}
	return filepath.Join(home, ".cache", "exifglass", "tags.db")
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

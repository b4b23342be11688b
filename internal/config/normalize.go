package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeExiftool(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeExiftool() error {
	c.Exiftool.Executable = strings.TrimSpace(c.Exiftool.Executable)
	if c.Exiftool.Executable == "" {
		if value, ok := os.LookupEnv(envExecutable); ok {
			c.Exiftool.Executable = strings.TrimSpace(value)
		}
	}
	// Bare names stay as-is for PATH lookup.
	if strings.ContainsAny(c.Exiftool.Executable, `/\`) || strings.HasPrefix(c.Exiftool.Executable, "~") {
		expanded, err := expandPath(c.Exiftool.Executable)
		if err != nil {
			return fmt.Errorf("exiftool.executable: %w", err)
		}
		c.Exiftool.Executable = expanded
	}

	c.Exiftool.Arguments = strings.TrimSpace(c.Exiftool.Arguments)
	if c.Exiftool.Arguments == "" {
		if value, ok := os.LookupEnv(envArguments); ok {
			c.Exiftool.Arguments = strings.TrimSpace(value)
		}
	}

	if strings.TrimSpace(c.Exiftool.ExtractDir) == "" {
		c.Exiftool.ExtractDir = defaultExtractDir
	}
	var err error
	if c.Exiftool.ExtractDir, err = expandPath(c.Exiftool.ExtractDir); err != nil {
		return fmt.Errorf("exiftool.extract_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

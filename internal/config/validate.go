package config

import (
	"errors"
	"fmt"
	"strings"

	"exifglass/internal/textutil"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExiftool(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if c.Batch.Concurrency < 1 {
		return errors.New("batch.concurrency must be at least 1")
	}
	return c.validateLogging()
}

func (c *Config) validateExiftool() error {
	if strings.TrimSpace(c.Exiftool.ExtractDir) == "" {
		return errors.New("exiftool.extract_dir must be set")
	}
	if c.Exiftool.TimeoutSeconds < 0 {
		return errors.New("exiftool.timeout_seconds must be zero or positive")
	}
	if _, err := textutil.SplitArgs(c.Exiftool.Arguments); err != nil {
		return fmt.Errorf("exiftool.arguments: %w", err)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache is enabled")
	}
	if c.Cache.MaxAgeDays < 0 {
		return errors.New("cache.max_age_days must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}

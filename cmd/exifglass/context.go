package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"exifglass/internal/config"
	"exifglass/internal/exiftool"
	"exifglass/internal/logging"
	"exifglass/internal/tagcache"
)

const logFilePattern = "*.log*"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		logging.PruneLogs(logger, cfg.Paths.LogDir, logFilePattern, cfg.Logging.RetentionDays, logging.LogFilePath(cfg))
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// sessionFactory builds exiftool sessions that share one logger and cache.
type sessionFactory struct {
	settings exiftool.Settings
	logger   *slog.Logger
	cache    *tagcache.Cache
}

func (c *commandContext) sessionFactory() (*sessionFactory, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	factory := &sessionFactory{
		settings: exiftool.Settings{
			Executable: cfg.Exiftool.Executable,
			Arguments:  cfg.ExiftoolArguments(),
			ExtractDir: cfg.Exiftool.ExtractDir,
			TempDir:    cfg.Paths.TempDir,
			Timeout:    cfg.ExiftoolTimeout(),
		},
		logger: logger,
	}
	if cfg.Cache.Enabled {
		cache, err := tagcache.Open(cfg)
		if err != nil {
			// Reads still work without the cache.
			logging.WarnWithContext(logger, "metadata cache unavailable", "cache_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache.path or set cache.enabled = false"),
				logging.String(logging.FieldImpact, "every read runs exiftool"),
			)
		} else {
			factory.cache = cache
		}
	}
	return factory, nil
}

func (f *sessionFactory) newSession() *exiftool.Session {
	opts := []exiftool.Option{exiftool.WithLogger(f.logger)}
	if f.cache != nil {
		opts = append(opts, exiftool.WithCache(f.cache))
	}
	return exiftool.New(f.settings, opts...)
}

func (f *sessionFactory) Close() {
	if f.cache != nil {
		if err := f.cache.Close(); err != nil {
			f.logger.Debug("close metadata cache", logging.Error(err))
		}
	}
}

// withSession runs fn against a fresh session and removes its temp copy
// afterwards.
func (c *commandContext) withSession(fn func(*exiftool.Session) error) error {
	factory, err := c.sessionFactory()
	if err != nil {
		return err
	}
	defer factory.Close()

	session := factory.newSession()
	defer session.Cleanup()
	return fn(session)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

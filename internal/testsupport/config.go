package testsupport

import (
	"path/filepath"
	"testing"

	"exifglass/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Exiftool.ExtractDir = filepath.Join(base, "extract")
	cfgVal.Exiftool.TimeoutSeconds = 10
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Cache.Path = filepath.Join(base, "cache", "tags.db")
	cfgVal.Batch.Concurrency = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithExiftool points the config at a stub executable.
func WithExiftool(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Exiftool.Executable = path
	}
}

// WithArguments sets exiftool.arguments on the test config.
func WithArguments(args string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Exiftool.Arguments = args
	}
}

// WithCache enables the parsed-read cache.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Exiftool.ExtractDir)
}

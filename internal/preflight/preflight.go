package preflight

import (
	"exifglass/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks that apply to cfg. Directories are
// created first so a fresh install reports permissions rather than absence.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	_ = cfg.EnsureDirectories()

	results := []Result{
		CheckDirectoryAccess("Extract directory", cfg.Exiftool.ExtractDir),
	}
	if cfg.Paths.TempDir != "" {
		results = append(results, CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cacheDir(cfg)))
	}
	return results
}

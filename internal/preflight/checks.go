package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"exifglass/internal/config"
	"exifglass/internal/deps"
	"exifglass/internal/exiftool"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// ExiftoolCommand returns the executable a session built from cfg would run.
func ExiftoolCommand(cfg *config.Config) string {
	if cfg != nil && strings.TrimSpace(cfg.Exiftool.Executable) != "" {
		return cfg.Exiftool.Executable
	}
	return exiftool.DefaultExecutable()
}

// CheckSystemDeps evaluates the external programs exifglass needs.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(ctx, []deps.Requirement{
		{
			Name:        "ExifTool",
			Command:     ExiftoolCommand(cfg),
			Description: "Required for reading and extracting metadata",
			VersionArgs: []string{"-ver"},
		},
	})
}

func cacheDir(cfg *config.Config) string {
	if strings.TrimSpace(cfg.Cache.Path) == "" {
		return ""
	}
	return filepath.Dir(cfg.Cache.Path)
}

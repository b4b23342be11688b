package exiftool

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"

	"exifglass/internal/fileutil"
)

// NeedsSanitizing reports whether path holds a character outside the
// ISO-8859-1 repertoire (code points above 255), which exiftool's filename
// handling cannot open reliably.
func NeedsSanitizing(path string) bool {
	_, err := charmap.ISO8859_1.NewEncoder().String(path)
	return err != nil
}

// SanitizePath returns a path exiftool can open. When path needs sanitizing
// the file is copied to a new temp file in tempDir (os.TempDir when empty)
// that keeps the original extension, and rewritten is true; the caller owns
// the copy. Any copy failure falls back to the original path.
func SanitizePath(path, tempDir string) (string, bool) {
	clean, rewritten, _ := sanitizePath(path, tempDir)
	return clean, rewritten
}

func sanitizePath(path, tempDir string) (string, bool, error) {
	if path == "" || !NeedsSanitizing(path) {
		return path, false, nil
	}

	tmp, err := os.CreateTemp(tempDir, "exifglass-*"+filepath.Ext(path))
	if err != nil {
		return path, false, fmt.Errorf("create temp copy: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := fileutil.CopyFile(path, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return path, false, fmt.Errorf("copy to temp: %w", err)
	}
	return tmpPath, true, nil
}

package exiftool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"exifglass/internal/fileutil"
	"exifglass/internal/textutil"
)

const (
	extractLockName   = ".exifglass.lock"
	extractLockRetry  = 50 * time.Millisecond
	extractedImageExt = ".jpg"
)

// Extractor writes single binary tag payloads through exiftool's -b -w! flags.
type Extractor struct {
	invoker *Invoker
	dir     string
}

// NewExtractor returns an extractor writing intermediate files into dir.
func NewExtractor(invoker *Invoker, dir string) *Extractor {
	return &Extractor{invoker: invoker, dir: dir}
}

// TagFlagName returns the tag name in exiftool's flag spelling (spaces removed).
func TagFlagName(tagName string) string {
	return textutil.StripSpaces(tagName)
}

// ExtractArgs returns the exiftool arguments that write tagName's binary
// payload from sourcePath into dir.
func ExtractArgs(tagName, dir, sourcePath string) []string {
	flagName := TagFlagName(tagName)
	return []string{
		"-" + flagName,
		"-b",
		"-w!",
		filepath.Join(dir, "%f_"+flagName),
		sourcePath,
	}
}

// ExtractedFileName is the file exiftool produces for sourcePath and tagName.
func ExtractedFileName(sourcePath, tagName string) string {
	return fileStem(sourcePath) + "_" + TagFlagName(tagName)
}

// SuggestedExtractName returns the default destination name for an extracted
// payload of the original file.
func SuggestedExtractName(originalPath, tagName string) string {
	return ExtractedFileName(originalPath, tagName) + extractedImageExt
}

// Extract writes tagName's payload from sourcePath to dest. A blank tag name
// is a no-op. The extraction directory is locked for the duration so
// concurrent processes sharing it do not pick up each other's output.
func (e *Extractor) Extract(ctx context.Context, sourcePath, tagName, dest string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return nil
	}
	if strings.TrimSpace(dest) == "" {
		return &ExtractionError{Tag: tagName, Err: fmt.Errorf("destination required")}
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return &ExtractionError{Tag: tagName, Err: fmt.Errorf("create extract directory: %w", err)}
	}

	lock := flock.New(filepath.Join(e.dir, extractLockName))
	locked, err := lock.TryLockContext(ctx, extractLockRetry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ExtractionError{Tag: tagName, Err: fmt.Errorf("lock extract directory: %w", err)}
	}
	if !locked {
		return &ExtractionError{Tag: tagName, Err: fmt.Errorf("extract directory %s is busy", e.dir)}
	}
	defer func() {
		_ = lock.Unlock()
	}()

	res, err := e.invoker.Run(ctx, ExtractArgs(tagName, e.dir, sourcePath))
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return &ExtractionError{Tag: tagName, Err: err}
	}
	if toolFailed(res.Stderr) {
		return &ExtractionError{Tag: tagName, Stderr: res.Stderr}
	}

	produced := filepath.Join(e.dir, ExtractedFileName(sourcePath, tagName))
	if err := fileutil.MoveFile(produced, dest); err != nil {
		return &ExtractionError{Tag: tagName, Err: fmt.Errorf("move extracted file: %w", err)}
	}
	return nil
}

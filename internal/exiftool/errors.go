package exiftool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolMissing reports that the exiftool executable could not be started
	// because it does not exist at the configured location.
	ErrToolMissing = errors.New("exiftool executable not found")
	// ErrNothingToExport is returned when exporting an empty Store.
	ErrNothingToExport = errors.New("no metadata to export")
	// ErrNoFile is returned by operations that need a previously read file.
	ErrNoFile = errors.New("no file has been read")
)

// ToolExecutionError carries exiftool's standard error output when a read
// fails. Err is set when the process could not be started at all.
type ToolExecutionError struct {
	Binary string
	Stderr string
	Err    error
}

func (e *ToolExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s", e.Err, e.Binary)
	}
	return strings.TrimSpace(e.Stderr)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// ParseError reports output where no line could be parsed into a tag.
type ParseError struct {
	Malformed int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse exiftool output (%d malformed lines); check the exiftool arguments", e.Malformed)
}

// ExtractionError reports a failed binary tag extraction.
type ExtractionError struct {
	Tag    string
	Stderr string
	Err    error
}

func (e *ExtractionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("extract %s: %v", e.Tag, e.Err)
	case strings.TrimSpace(e.Stderr) != "":
		return fmt.Sprintf("extract %s: %s", e.Tag, strings.TrimSpace(e.Stderr))
	default:
		return fmt.Sprintf("extract %s: failed", e.Tag)
	}
}

func (e *ExtractionError) Unwrap() error { return e.Err }

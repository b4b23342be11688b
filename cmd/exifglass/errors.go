package main

import (
	"context"
	"errors"
	"fmt"

	"exifglass/internal/exiftool"
)

const toolMissingHint = "exiftool is not installed or could not be found; update exiftool.executable"

// describeError turns command errors into the message printed before exit.
func describeError(err error) string {
	switch {
	case errors.Is(err, exiftool.ErrToolMissing):
		return fmt.Sprintf("%s (%v)", toolMissingHint, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%v (raise exiftool.timeout_seconds for large files)", err)
	default:
		return err.Error()
	}
}

// Package config loads, normalizes, and validates exifglass configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the EXIFGLASS_EXIFTOOL and EXIFGLASS_EXIFTOOL_ARGS
// environment fallbacks. Callers hand the resulting values to the exiftool
// package explicitly; nothing below the CLI reads configuration globals.
package config

// Package exiftool wraps the ExifTool command-line program used to read
// metadata from media files.
//
// It has no dependency on the CLI or configuration packages; callers pass
// a Settings value and receive parsed tags back.
//
// Key types:
//   - Session: one read context (original path, effective path, temp copy)
//     owning the most recent Store
//   - Store: ordered, immutable collection of Tag records with contiguous
//     group enumeration
//   - Invoker: builds exiftool command lines and captures buffered output
//   - Extractor: pulls a single tag's binary payload to a destination file
//
// Primary entry points:
//   - Parse: converts raw tab-delimited exiftool output into Tags
//   - SanitizePath: produces a temp copy for paths exiftool cannot open
//   - Render / WriteFile: text, CSV and JSON exports of a Store
//
// Prefer Session over calling Invoker directly so temporary files are
// cleaned up exactly once and failed reads never replace a good Store.
package exiftool

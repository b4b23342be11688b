// Package logging builds the slog loggers used by exifglass.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and the attribute helpers and field keys shared by every component. A no-op
// logger is provided for tests and library callers that do not want output.
package logging

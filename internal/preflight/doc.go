// Package preflight provides readiness checks for the exiftool binary and the
// directories exifglass writes into.
//
// The CLI "exifglass status" command runs these checks and renders the
// results; "exifglass extract" runs CheckDirectoryAccess on the extraction
// directory before invoking exiftool.
package preflight

// Package main hosts the exifglass CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds an exiftool
// session per invocation (or per file for batch runs), and renders the
// results as tables, JSON, or export files. Metadata handling lives in
// internal/exiftool; this package only wires flags to it and formats output.
package main

// Package logs reads back the exifglass log file for the `logs` command.
//
// Reads are bounded: the last N lines are gathered with a ring buffer and
// follow mode polls from a byte offset, so large log files never load into
// memory at once. An optional substring filter keeps only matching lines,
// which is how a single session's entries are picked out by session id.
package logs

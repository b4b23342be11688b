// Package textutil provides small string helpers shared by the CLI and the
// exiftool wrapper: filename sanitizing, exiftool flag spelling, and
// splitting of configured argument strings.
package textutil

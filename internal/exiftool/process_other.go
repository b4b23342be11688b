//go:build !unix

package exiftool

import "os/exec"

// configureProcess keeps the default cancellation (kill the direct child);
// WaitDelay still bounds the wait on descendants holding the pipes.
func configureProcess(*exec.Cmd) {}

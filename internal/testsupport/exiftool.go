package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// StubOutput describes what a stub exiftool prints.
type StubOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Payload is written to the -w! target during extraction runs.
	Payload string
}

// Stub is a shell script standing in for exiftool.
type Stub struct {
	Path      string
	argsFile  string
	delayFile string
}

// SetDelay makes later invocations sleep for seconds before printing output.
// The sleep runs in a child process of the script, like the perl process
// behind the exiftool launcher.
func (s *Stub) SetDelay(t testing.TB, seconds int) {
	t.Helper()
	if err := os.WriteFile(s.delayFile, []byte(strconv.Itoa(seconds)), 0o644); err != nil {
		t.Fatalf("write stub delay: %v", err)
	}
}

// Args returns the arguments of the most recent invocation, one per element.
func (s *Stub) Args(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(s.argsFile)
	if err != nil {
		t.Fatalf("read stub args: %v", err)
	}
	trimmed := strings.TrimSuffix(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// Calls returns how many times the stub ran.
func (s *Stub) Calls(t testing.TB) int {
	t.Helper()
	data, err := os.ReadFile(s.argsFile + ".calls")
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read stub calls: %v", err)
	}
	return strings.Count(string(data), "\n")
}

// WriteStubExiftool writes an executable script into a temp directory that
// records its arguments and prints out. When invoked with -w! it writes
// out.Payload to the template path with %f replaced by the source file stem.
func WriteStubExiftool(t testing.TB, out StubOutput) *Stub {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub exiftool requires a POSIX shell")
	}

	dir := t.TempDir()
	stub := &Stub{
		Path:      filepath.Join(dir, "exiftool"),
		argsFile:  filepath.Join(dir, "args.txt"),
		delayFile: filepath.Join(dir, "delay.txt"),
	}
	stdoutFile := filepath.Join(dir, "stdout.txt")
	stderrFile := filepath.Join(dir, "stderr.txt")
	payloadFile := filepath.Join(dir, "payload.bin")
	for path, content := range map[string]string{
		stdoutFile:  out.Stdout,
		stderrFile:  out.Stderr,
		payloadFile: out.Payload,
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write stub fixture: %v", err)
		}
	}

	script := fmt.Sprintf(`#!/bin/sh
: > %[1]q
for a in "$@"; do printf '%%s\n' "$a" >> %[1]q; done
echo call >> %[1]q.calls
if [ -s %[6]q ]; then sleep "$(cat %[6]q)"; fi
prev=""
tmpl=""
last=""
for a in "$@"; do
  if [ "$prev" = "-w!" ]; then tmpl="$a"; fi
  prev="$a"
  last="$a"
done
if [ -n "$tmpl" ]; then
  base=$(basename "$last")
  stem=${base%%.*}
  dest=$(printf '%%s' "$tmpl" | sed "s|%%f|$stem|")
  cat %[4]q > "$dest"
fi
cat %[2]q
cat %[3]q >&2
exit %[5]d
`, stub.argsFile, stdoutFile, stderrFile, payloadFile, out.ExitCode, stub.delayFile)

	if err := os.WriteFile(stub.Path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub exiftool: %v", err)
	}
	return stub
}

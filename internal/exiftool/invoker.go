package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// BaselineArgs are passed to every read: fast mode, group names, tab
// separated output, ignore minor errors, quiet, hex tag ids.
var BaselineArgs = []string{"-fast", "-G", "-t", "-m", "-q", "-H"}

// pressEnterPrompt is written to stderr by the Windows build when it thinks it
// was launched interactively; it does not indicate a failure.
const pressEnterPrompt = "-- press ENTER --"

// processWaitDelay bounds how long a cancelled run waits for output pipes to
// close after the process has been killed.
const processWaitDelay = 2 * time.Second

// Result captures the buffered output of one exiftool run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Result, error)
}

// Invoker runs exiftool with the standard read flags.
type Invoker struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewInvoker constructs an invoker for binary; an empty binary resolves to
// DefaultExecutable. A zero timeout disables the deadline.
func NewInvoker(binary string, timeout time.Duration, exec Executor) *Invoker {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultExecutable()
	}
	if exec == nil {
		exec = commandExecutor{}
	}
	return &Invoker{binary: binary, timeout: timeout, exec: exec}
}

// Binary returns the executable the invoker runs.
func (i *Invoker) Binary() string {
	return i.binary
}

// ReadArgs returns the argument list for reading path.
func ReadArgs(path string, extra []string) []string {
	args := make([]string, 0, len(BaselineArgs)+len(extra)+1)
	args = append(args, BaselineArgs...)
	for _, arg := range extra {
		if strings.TrimSpace(arg) != "" {
			args = append(args, arg)
		}
	}
	return append(args, path)
}

// CommandLine renders the full command for display. Arguments containing
// whitespace are quoted.
func (i *Invoker) CommandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{i.binary}, args...) {
		if part == "" || strings.ContainsAny(part, " \t\"") {
			part = `"` + part + `"`
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// Read runs exiftool against path and returns its standard output. A non-zero
// exit status is not an error; unexpected standard error output is reported
// as a ToolExecutionError.
func (i *Invoker) Read(ctx context.Context, path string, extra []string) (string, error) {
	res, err := i.Run(ctx, ReadArgs(path, extra))
	if err != nil {
		return "", err
	}
	if toolFailed(res.Stderr) {
		return "", &ToolExecutionError{Binary: i.binary, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

// Run executes exiftool with args, applying the configured timeout.
func (i *Invoker) Run(ctx context.Context, args []string) (Result, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	res, err := i.exec.Run(ctx, i.binary, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		if errors.Is(err, ErrToolMissing) {
			return Result{}, &ToolExecutionError{Binary: i.binary, Err: ErrToolMissing}
		}
		return Result{}, fmt.Errorf("run exiftool: %w", err)
	}
	return res, nil
}

func toolFailed(stderr string) bool {
	trimmed := strings.TrimSpace(stderr)
	return trimmed != "" && trimmed != pressEnterPrompt
}

// DefaultExecutable returns exiftool next to the running program when present,
// otherwise the bare executable name for PATH lookup.
func DefaultExecutable() string {
	name := "exiftool"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	self, err := os.Executable()
	if err != nil {
		return name
	}
	candidate := filepath.Join(filepath.Dir(self), name)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return name
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	configureProcess(cmd)
	cmd.WaitDelay = processWaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("%w: %v", ErrToolMissing, err)
	}
	return res, err
}

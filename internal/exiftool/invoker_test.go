package exiftool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeExecutor struct {
	mu     sync.Mutex
	calls  [][]string
	binary string
	run    func(ctx context.Context, args []string) (Result, error)
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	f.mu.Lock()
	f.binary = binary
	f.calls = append(f.calls, append([]string(nil), args...))
	f.mu.Unlock()
	if f.run == nil {
		return Result{}, nil
	}
	return f.run(ctx, args)
}

func (f *fakeExecutor) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestReadArgsOrder(t *testing.T) {
	got := ReadArgs("/p/a.jpg", []string{"-lang", " ", "de"})
	want := []string{"-fast", "-G", "-t", "-m", "-q", "-H", "-lang", "de", "/p/a.jpg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestInvokerReadReturnsStdout(t *testing.T) {
	exec := &fakeExecutor{run: func(context.Context, []string) (Result, error) {
		return Result{Stdout: "EXIF\t0x010f\tMake\tCanon\r\n", ExitCode: 1}, nil
	}}
	inv := NewInvoker("/opt/exiftool", 0, exec)

	out, err := inv.Read(context.Background(), "/p/a.jpg", nil)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if out != "EXIF\t0x010f\tMake\tCanon\r\n" {
		t.Fatalf("unexpected stdout %q", out)
	}
	if exec.binary != "/opt/exiftool" {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
}

func TestInvokerReadToleratesPressEnterPrompt(t *testing.T) {
	exec := &fakeExecutor{run: func(context.Context, []string) (Result, error) {
		return Result{Stdout: "A\t1\tB\tc\r\n", Stderr: "-- press ENTER --\r\n"}, nil
	}}
	if _, err := NewInvoker("exiftool", 0, exec).Read(context.Background(), "a.jpg", nil); err != nil {
		t.Fatalf("expected prompt artifact to be ignored, got %v", err)
	}
}

func TestInvokerReadReportsStderr(t *testing.T) {
	exec := &fakeExecutor{run: func(context.Context, []string) (Result, error) {
		return Result{Stderr: "Error: File not found - a.jpg\n"}, nil
	}}
	_, err := NewInvoker("exiftool", 0, exec).Read(context.Background(), "a.jpg", nil)
	var toolErr *ToolExecutionError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolExecutionError, got %v", err)
	}
	if toolErr.Stderr != "Error: File not found - a.jpg\n" {
		t.Fatalf("expected raw stderr, got %q", toolErr.Stderr)
	}
	if err.Error() != "Error: File not found - a.jpg" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestInvokerMapsMissingTool(t *testing.T) {
	exec := &fakeExecutor{run: func(context.Context, []string) (Result, error) {
		return Result{}, fmt.Errorf("%w: exec: not found", ErrToolMissing)
	}}
	_, err := NewInvoker("exiftool", 0, exec).Read(context.Background(), "a.jpg", nil)
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	var toolErr *ToolExecutionError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolExecutionError wrapper, got %T", err)
	}
}

func TestInvokerTimeout(t *testing.T) {
	exec := &fakeExecutor{run: func(ctx context.Context, _ []string) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}}
	_, err := NewInvoker("exiftool", 20*time.Millisecond, exec).Read(context.Background(), "a.jpg", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestInvokerCommandLineQuotes(t *testing.T) {
	inv := NewInvoker("/opt/exif tool/exiftool", 0, &fakeExecutor{})
	got := inv.CommandLine(ReadArgs("/photos/my photo.jpg", nil))
	want := `"/opt/exif tool/exiftool" -fast -G -t -m -q -H "/photos/my photo.jpg"`
	if got != want {
		t.Fatalf("unexpected command line:\n got %s\nwant %s", got, want)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	inv := NewInvoker(filepath.Join(t.TempDir(), "no-such-exiftool"), 0, nil)
	_, err := inv.Read(context.Background(), "a.jpg", nil)
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestCommandExecutorCapturesOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "exiftool")
	body := "#!/bin/sh\nprintf 'A\\t1\\tB\\tc\\r\\n'\necho warning >&2\nexit 2\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := commandExecutor{}.Run(context.Background(), script, []string{"a.jpg"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := Result{Stdout: "A\t1\tB\tc\r\n", Stderr: "warning\n", ExitCode: 2}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandExecutorHonoursCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "exiftool")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 10\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	started := time.Now()
	_, err := NewInvoker(script, 0, nil).Read(ctx, "a.jpg", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(started) > 5*time.Second {
		t.Fatal("process was not killed on cancellation")
	}
}

func TestToolFailed(t *testing.T) {
	cases := map[string]bool{
		"":                        false,
		"  \r\n":                  false,
		"-- press ENTER --\r\n":   false,
		"Warning: x":              true,
		"-- press ENTER --\nmore": true,
	}
	for stderr, want := range cases {
		if got := toolFailed(stderr); got != want {
			t.Errorf("toolFailed(%q) = %v, want %v", stderr, got, want)
		}
	}
}

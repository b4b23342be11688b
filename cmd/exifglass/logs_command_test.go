package main

import (
	"os"
	"strings"
	"testing"

	"exifglass/internal/logging"
	"exifglass/internal/testsupport"
)

func TestLogsShowsSessionEntries(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stdout: stubStdout})
	photo := writePhoto(t, t.TempDir(), "holiday.jpg")

	if _, _, err := env.run(t, "read", photo); err != nil {
		t.Fatalf("read: %v", err)
	}

	out, _, err := env.run(t, "logs", "-n", "10")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "metadata loaded")
	requireContains(t, out, "holiday.jpg")

	out, _, err = env.run(t, "logs", "--session", "no-such-session")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no entries for unknown session, got %q", out)
	}
}

func TestLogsFiltersBySession(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{})
	path := logging.LogFilePath(env.cfg)
	content := "2026-01-02 10:00:00 INFO exiftool: metadata loaded session_id=aaa\n" +
		"2026-01-02 10:00:01 INFO exiftool: metadata loaded session_id=bbb\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := env.run(t, "logs", "--session", "bbb")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.Contains(out, "session_id=aaa") || !strings.Contains(out, "session_id=bbb") {
		t.Fatalf("unexpected filtered output %q", out)
	}
}

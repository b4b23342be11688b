package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"exifglass/internal/deps"
	"exifglass/internal/preflight"
	"exifglass/internal/testsupport"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("ExifTool", statusError, "not available", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "ExifTool:", "[ERROR] not available")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("ExifTool", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "ExifTool", Available: true, Path: "/usr/bin/exiftool", Version: "12.76"},
		{Name: "Other", Optional: true, Detail: "binary \"other\" not found"},
		{Name: "Broken"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	requireContains(t, lines[0], "[OK] Ready (version 12.76, path: /usr/bin/exiftool)")
	requireContains(t, lines[1], "[WARN] binary \"other\" not found")
	requireContains(t, lines[2], "[ERROR] not available")
	requireContains(t, lines[3], toolMissingHint)
}

func TestPreflightLines(t *testing.T) {
	lines := preflightLines([]preflight.Result{
		{Name: "Extract directory", Passed: true, Detail: "/tmp (read/write ok)"},
		{Name: "Log directory", Detail: "/nope (error: does not exist)"},
	}, false)
	requireContains(t, lines[0], "[OK]")
	requireContains(t, lines[1], "[ERROR] /nope")
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stdout: "12.76\n"})

	out, _, err := env.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK] Ready (version 12.76")
	requireContains(t, out, "Extract directory:")
	requireContains(t, out, "[INFO] Disabled")
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for non-terminal output, got %q", out)
	}
}

func TestStatusCommandJSONWithCache(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stdout: "12.76\n"}, testsupport.WithCache())

	out, _, err := env.run(t, "status", "--json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode status: %v\n%s", err, out)
	}
	if len(report.Dependencies) != 1 || report.Dependencies[0].Version != "12.76" {
		t.Fatalf("unexpected dependencies %+v", report.Dependencies)
	}
	if report.Cache == nil || report.Cache.Entries != 0 {
		t.Fatalf("expected empty cache stats, got %+v", report.Cache)
	}
	for _, dir := range report.Directories {
		if !dir.Passed {
			t.Fatalf("expected directory check to pass: %+v", dir)
		}
	}
}

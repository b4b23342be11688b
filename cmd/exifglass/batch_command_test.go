package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"exifglass/internal/exiftool"
	"exifglass/internal/testsupport"
)

func TestBatchOutputsDisambiguatesStems(t *testing.T) {
	files := []string{"/a/IMG_1.jpg", "/b/IMG_1.jpg", "/c/img_1.png", "/d/other.jpg"}
	got := batchOutputs(files, "/out", exiftool.FormatJSON)
	want := []string{
		filepath.Join("/out", "IMG_1.json"),
		filepath.Join("/out", "IMG_1-2.json"),
		filepath.Join("/out", "img_1-3.json"),
		filepath.Join("/out", "other.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("batch outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchExportsEveryFile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stdout: stubStdout})
	first := writePhoto(t, t.TempDir(), "one.jpg")
	second := writePhoto(t, t.TempDir(), "two.jpg")
	outDir := filepath.Join(t.TempDir(), "exports")

	out, _, err := env.run(t, "batch", "--json", "-f", "json", "-o", outDir, first, second)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	var results []batchResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode results: %v\n%s", err, out)
	}
	want := []batchResult{
		{File: first, Output: filepath.Join(outDir, "one.json"), Tags: 4},
		{File: second, Output: filepath.Join(outDir, "two.json"), Tags: 4},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if env.stub.Calls(t) != 2 {
		t.Fatalf("expected one exiftool run per file, got %d", env.stub.Calls(t))
	}

	data, err := os.ReadFile(filepath.Join(outDir, "two.json"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	tags, err := exiftool.ParseJSON(data)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if tags[0].Value != "two.jpg" {
		t.Fatalf("expected File Name of the second input, got %q", tags[0].Value)
	}
}

func TestBatchReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stderr: "Error: File format error"})
	photo := writePhoto(t, t.TempDir(), "broken.jpg")
	outDir := t.TempDir()

	out, _, err := env.run(t, "batch", "-o", outDir, photo)
	if err == nil {
		t.Fatal("expected batch to report failure")
	}
	requireContains(t, err.Error(), "1 of 1 files failed")
	requireContains(t, out, "failed: Error: File format error")
}

func TestBatchRequiresOutputDir(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stdout: stubStdout})
	photo := writePhoto(t, t.TempDir(), "one.jpg")

	_, _, err := env.run(t, "batch", photo)
	if err == nil {
		t.Fatal("expected error without --output-dir")
	}
	requireContains(t, err.Error(), "--output-dir")
}

func TestBatchIntoInputDirectoryKeepsInputs(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.StubOutput{Stdout: stubStdout})
	dir := t.TempDir()
	notes := writeInput(t, dir, "notes.txt", "ORIGINAL USER DATA")
	photo := writePhoto(t, dir, "photo.jpg")

	if _, _, err := env.run(t, "batch", "-o", dir, notes, photo); err != nil {
		t.Fatalf("batch: %v", err)
	}
	requireFileContent(t, notes, "ORIGINAL USER DATA")
	for _, name := range []string{"notes_metadata.txt", "photo.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected export %s: %v", name, err)
		}
	}
}

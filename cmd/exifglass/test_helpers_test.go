package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"exifglass/internal/config"
	"exifglass/internal/testsupport"
)

const stubStdout = "File\t-\tFile Name\tcopy.jpg\r\n" +
	"EXIF\t0x010f\tMake\tCanon\r\n" +
	"EXIF\t0x0110\tCamera Model Name\tCanon EOS R5\r\n" +
	"EXIF\t0x0201\tThumbnail Image\t(Binary data 4 bytes, use -b option to extract)\r\n"

type cliTestEnv struct {
	cfg        *config.Config
	stub       *testsupport.Stub
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, out testsupport.StubOutput, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	stub := testsupport.WriteStubExiftool(t, out)
	opts = append([]testsupport.ConfigOption{testsupport.WithExiftool(stub.Path)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		stub:       stub,
		configPath: configPath,
		baseDir:    base,
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	testsupport.WriteFile(t, path, 64)
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

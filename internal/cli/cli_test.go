package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/create-importmap/pkg/buildinfo"
	"github.com/matzehuels/create-importmap/pkg/errors"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"package.json":                              `{"name": "app", "dependencies": {"preact": "^10.0.0"}, "devDependencies": {"uvu": "^0.5.0"}}`,
		"node_modules/preact/package.json":          `{"name": "preact", "version": "10.25.0", "exports": {".": {"browser": "./dist/preact.module.js", "require": "./dist/preact.js"}}}`,
		"node_modules/preact/dist/preact.module.js": "",
		"node_modules/uvu/package.json":             `{"name": "uvu", "version": "0.5.6", "main": "./index.js"}`,
		"node_modules/uvu/index.js":                 "",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(&stderr, LogWarn)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if stdout != buildinfo.Version+"\n" {
		t.Errorf("stdout = %q, want %q", stdout, buildinfo.Version+"\n")
	}
}

func TestHelp(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	if !strings.Contains(stdout, "Usage:\n  create-importmap [flags]") {
		t.Errorf("help output missing usage line:\n%s", stdout)
	}
	for _, flag := range []string{"-D, --dev", "-S, --js", "-B, --base", "-O, --out", "--minify", "--input-map", "-v, --verbose"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("help output missing %q", flag)
		}
	}
}

func TestGenerateJSON(t *testing.T) {
	dir := writeProject(t)
	out := filepath.Join(dir, "importmap.json")

	stdout, stderr, err := execute(t, "-B", dir, "-O", out)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty, got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr should be empty at the default level, got %q", stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"preact": "./node_modules/preact/dist/preact.module.js"`) {
		t.Errorf("unexpected import map:\n%s", data)
	}
	if strings.Contains(string(data), "uvu") {
		t.Error("dev dependency mapped without --dev")
	}
}

func TestGenerateJSDev(t *testing.T) {
	dir := writeProject(t)
	out := filepath.Join(dir, "public", "importmap.js")

	if _, _, err := execute(t, "--dev", "--js", "-B", dir, "-O", out); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	script := string(data)
	if !strings.HasPrefix(script, "(() => {") {
		t.Errorf("script should be an IIFE:\n%s", script)
	}
	if !strings.Contains(script, `"uvu": "../node_modules/uvu/index.js"`) {
		t.Errorf("dev dependency missing from script:\n%s", script)
	}
}

func TestDefaultOutputInBase(t *testing.T) {
	dir := writeProject(t)
	chdir(t, t.TempDir())

	if _, _, err := execute(t, "-B", dir); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if _, err := os.Stat("importmap.json"); !os.IsNotExist(err) {
		t.Error("output must not be written to the working directory")
	}

	data, err := os.ReadFile(filepath.Join(dir, "importmap.json"))
	if err != nil {
		t.Fatalf("output not written to the base directory: %v", err)
	}
	if !strings.Contains(string(data), `"preact": "./node_modules/preact/dist/preact.module.js"`) {
		t.Errorf("entries should be relative to the base directory:\n%s", data)
	}
}

func TestRelativeOutInBase(t *testing.T) {
	dir := writeProject(t)
	chdir(t, t.TempDir())

	if _, _, err := execute(t, "-S", "-B", dir, "-O", "public/importmap.js"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "public", "importmap.js"))
	if err != nil {
		t.Fatalf("output not written under the base directory: %v", err)
	}
	if !strings.Contains(string(data), `"preact": "../node_modules/preact/dist/preact.module.js"`) {
		t.Errorf("entries should be relative to the output directory:\n%s", data)
	}
}

func TestVerboseSummary(t *testing.T) {
	dir := writeProject(t)
	out := filepath.Join(dir, "importmap.json")

	stdout, stderr, err := execute(t, "-v", "-B", dir, "-O", out)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout should stay empty, got %q", stdout)
	}
	if !strings.Contains(stderr, out) {
		t.Errorf("verbose summary should name the output file:\n%s", stderr)
	}
}

func TestMissingManifest(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "-B", dir, "-O", filepath.Join(dir, "importmap.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRejectsArguments(t *testing.T) {
	if _, _, err := execute(t, "extra"); err == nil {
		t.Error("positional arguments should be rejected")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New(errors.ErrCodeInvalidManifest, "bad package.json"))
	got := buf.String()
	if !strings.Contains(got, "bad package.json") || !strings.Contains(got, "INVALID_MANIFEST") {
		t.Errorf("PrintError() = %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("PrintError() should end with a newline")
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

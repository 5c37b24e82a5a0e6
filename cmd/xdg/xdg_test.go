package xdg

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "my-cache"))
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_RUNTIME_DIR", "")
	return home
}

func TestRunTable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("xdg directories are not a thing on windows")
	}

	home := setupEnv(t)

	var stdout, stderr bytes.Buffer
	code := Run(&Params{}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"XDG_CACHE_HOME",
		filepath.Join(home, "my-cache"),
		"XDG_CONFIG_HOME",
		filepath.Join(home, ".config"),
		"XDG_DESKTOP_DIR",
		filepath.Join(home, "Desktop"),
		"XDG_DOWNLOAD_DIR",
		filepath.Join(home, "Downloads"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunTableSources(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("xdg directories are not a thing on windows")
	}

	home := setupEnv(t)

	configDir := filepath.Join(home, ".config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	contents := "XDG_DESKTOP_DIR=\"$HOME/Skrivbord\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "user-dirs.dirs"), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write user-dirs.dirs: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Params{}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, filepath.Join(home, "Skrivbord")) {
		t.Errorf("expected configured desktop dir in output, got:\n%s", out)
	}
	if !strings.Contains(out, "user-dirs.dirs") {
		t.Errorf("expected user-dirs.dirs source marker in output, got:\n%s", out)
	}
	if !strings.Contains(out, "env") {
		t.Errorf("expected env source marker for XDG_CACHE_HOME, got:\n%s", out)
	}
}

func TestRunJson(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("xdg directories are not a thing on windows")
	}

	home := setupEnv(t)

	var stdout, stderr bytes.Buffer
	code := Run(&Params{Json: true}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d, stderr: %s", code, stderr.String())
	}

	var r report
	if err := json.Unmarshal(stdout.Bytes(), &r); err != nil {
		t.Fatalf("failed to parse json output: %v\noutput: %s", err, stdout.String())
	}

	if r.CacheHome != filepath.Join(home, "my-cache") {
		t.Errorf("expected cache home %q, got %q", filepath.Join(home, "my-cache"), r.CacheHome)
	}
	if r.ConfigHome != filepath.Join(home, ".config") {
		t.Errorf("expected config home %q, got %q", filepath.Join(home, ".config"), r.ConfigHome)
	}
	if r.RuntimeDir != "" {
		t.Errorf("expected empty runtime dir, got %q", r.RuntimeDir)
	}
	if got := r.UserDirs["Documents"]; got != filepath.Join(home, "Documents") {
		t.Errorf("expected documents dir %q, got %q", filepath.Join(home, "Documents"), got)
	}
	if len(r.UserDirs) != 8 {
		t.Errorf("expected 8 user dirs, got %d: %v", len(r.UserDirs), r.UserDirs)
	}
}

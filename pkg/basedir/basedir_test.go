package basedir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDirs_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/custom-data")
	t.Setenv("XDG_STATE_HOME", "/tmp/custom-state")

	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{"CacheHome", CacheHome, "/tmp/custom-cache"},
		{"ConfigHome", ConfigHome, "/tmp/custom-config"},
		{"DataHome", DataHome, "/tmp/custom-data"},
		{"StateHome", StateHome, "/tmp/custom-state"},
	}

	for _, tt := range tests {
		if result := tt.fn(); result != tt.expected {
			t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
		}
	}
}

func TestBaseDirs_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{"CacheHome", CacheHome, filepath.Join(home, ".cache")},
		{"ConfigHome", ConfigHome, filepath.Join(home, ".config")},
		{"DataHome", DataHome, filepath.Join(home, ".local", "share")},
		{"StateHome", StateHome, filepath.Join(home, ".local", "state")},
	}

	for _, tt := range tests {
		if result := tt.fn(); result != tt.expected {
			t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
		}
	}
}

func TestRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	dir, err := RuntimeDir()
	if err != nil {
		t.Fatalf("RuntimeDir() returned error: %v", err)
	}
	if dir != "/run/user/1000" {
		t.Errorf("RuntimeDir() = %q, want %q", dir, "/run/user/1000")
	}

	t.Setenv("XDG_RUNTIME_DIR", "")
	if _, err := RuntimeDir(); err == nil {
		t.Error("RuntimeDir() should return error when unset")
	}
}

func TestAppDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	if result := AppConfigDir("sundry"); result != "/tmp/cfg/sundry" {
		t.Errorf("AppConfigDir = %q", result)
	}
	if result := AppCacheDir("sundry"); result != "/tmp/cache/sundry" {
		t.Errorf("AppCacheDir = %q", result)
	}
	if result := AppDataDir("sundry"); result != "/tmp/data/sundry" {
		t.Errorf("AppDataDir = %q", result)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("created directory missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir created something that is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("EnsureDir permissions = %04o, want 0700", perm)
	}

	// second call on an existing directory is a no-op
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir returned error: %v", err)
	}
}

func writeUserDirs(t *testing.T, content string) {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	if err := os.WriteFile(filepath.Join(configHome, "user-dirs.dirs"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLookupUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeUserDirs(t, `# This file is written by xdg-user-dirs-update
XDG_DESKTOP_DIR="$HOME/Desktop"
XDG_DOWNLOAD_DIR="$HOME/Stuff/Downloads"
XDG_MUSIC_DIR="/mnt/media/music"
`)

	tests := []struct {
		dir      UserDirectory
		expected string
	}{
		{Desktop, filepath.Join(home, "Desktop")},
		{Download, filepath.Join(home, "Stuff/Downloads")},
		{Music, "/mnt/media/music"},
	}

	for _, tt := range tests {
		result, ok := LookupUserDir(tt.dir)
		if !ok {
			t.Errorf("LookupUserDir(%s) reported missing", tt.dir)
			continue
		}
		if result != tt.expected {
			t.Errorf("LookupUserDir(%s) = %q, want %q", tt.dir, result, tt.expected)
		}
	}

	if _, ok := LookupUserDir(Videos); ok {
		t.Error("LookupUserDir(Videos) should report missing for absent key")
	}
}

func TestLookupUserDir_NoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, ok := LookupUserDir(Desktop); ok {
		t.Error("LookupUserDir should report missing without user-dirs.dirs")
	}
}

func TestUserDir_Fallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if result := UserDir(Download); result != filepath.Join(home, "Downloads") {
		t.Errorf("UserDir(Download) = %q, want home fallback", result)
	}
	if result := UserDir(PublicShare); result != filepath.Join(home, "Public") {
		t.Errorf("UserDir(PublicShare) = %q, want home fallback", result)
	}
}

func TestUserDir_DisabledEntry(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeUserDirs(t, `XDG_TEMPLATES_DIR="$HOME"
`)

	// pointing at $HOME means the directory is disabled
	if result := UserDir(Templates); result != filepath.Join(home, "Templates") {
		t.Errorf("UserDir(Templates) = %q, want conventional fallback", result)
	}
}

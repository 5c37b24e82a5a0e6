// Package basedir resolves freedesktop.org base directories and the
// per-user well known directories (Desktop, Downloads and friends).
package basedir

import (
	"fmt"
	"os"
	"path/filepath"
)

// https://specifications.freedesktop.org/basedir/latest/#variables

func CacheHome() string {
	return baseDir("XDG_CACHE_HOME", ".cache")
}

func ConfigHome() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

func DataHome() string {
	return baseDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func StateHome() string {
	return baseDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// RuntimeDir returns XDG_RUNTIME_DIR. Unlike the other base directories
// it has no home fallback, so it is an error when unset.
func RuntimeDir() (string, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return "", fmt.Errorf("XDG_RUNTIME_DIR is not set")
	}
	return dir, nil
}

func baseDir(envVar, homeRelative string) string {
	dir := os.Getenv(envVar)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, homeRelative)
	}
	return dir
}

func AppCacheDir(app string) string {
	return filepath.Join(CacheHome(), app)
}

func AppConfigDir(app string) string {
	return filepath.Join(ConfigHome(), app)
}

func AppDataDir(app string) string {
	return filepath.Join(DataHome(), app)
}

// EnsureDir creates dir when missing, with permissions restricted to
// the owning user.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o700)
}

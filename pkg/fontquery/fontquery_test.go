package fontquery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func fakeGSettings(t *testing.T, font string) {
	t.Helper()
	dir := t.TempDir()
	script := fmt.Sprintf("#!/bin/sh\necho \"'%s'\"\n", font)
	if err := os.WriteFile(filepath.Join(dir, "gsettings"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
}

func TestGSettings_MonospaceFont(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix only")
	}

	fakeGSettings(t, "JetBrains Mono 10")

	font, err := GSettings{}.MonospaceFont(context.Background())
	if err != nil {
		t.Fatalf("MonospaceFont returned error: %v", err)
	}
	if font != "JetBrains Mono 10" {
		t.Errorf("MonospaceFont = %q, want %q", font, "JetBrains Mono 10")
	}
}

func TestGSettings_Missing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := (GSettings{}).MonospaceFont(context.Background()); err == nil {
		t.Error("MonospaceFont should return error when gsettings is unavailable")
	}
}

func TestMonospace_Fallback(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	ResetForTest()
	t.Cleanup(ResetForTest)

	if font := Monospace(context.Background()); font != Fallback {
		t.Errorf("Monospace = %q, want fallback %q", font, Fallback)
	}
}

func TestMonospace_CachesFirstResult(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix only")
	}

	fakeGSettings(t, "Fira Code 11")
	ResetForTest()
	t.Cleanup(ResetForTest)

	if font := Monospace(context.Background()); font != "Fira Code 11" {
		t.Fatalf("Monospace = %q, want %q", font, "Fira Code 11")
	}

	// later configuration changes must not affect the cached value
	fakeGSettings(t, "Comic Sans 13")
	if font := Monospace(context.Background()); font != "Fira Code 11" {
		t.Errorf("Monospace after config change = %q, want cached %q", font, "Fira Code 11")
	}
}

package df

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestRunPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix only")
	}

	var stdout, stderr bytes.Buffer
	err := Run(&Params{Paths: []string{t.TempDir()}}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run failed: %v, stderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "Mounted on") {
		t.Errorf("expected header in output, got:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header, separator and one filesystem line, got %d lines:\n%s", len(lines), out)
	}
}

func TestRunAllMounts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix only")
	}

	var stdout, stderr bytes.Buffer
	err := Run(&Params{}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run failed: %v, stderr: %s", err, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) < 3 {
		t.Errorf("expected at least one filesystem line, got:\n%s", stdout.String())
	}
}

func TestRunHuman(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix only")
	}

	var stdout, stderr bytes.Buffer
	err := Run(&Params{Paths: []string{t.TempDir()}, Human: true}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run failed: %v, stderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "Size") || !strings.Contains(out, "Avail") {
		t.Errorf("expected human readable header, got:\n%s", out)
	}
	// any real filesystem is at least megabytes
	if !strings.Contains(out, "iB") && !strings.Contains(out, " B") {
		t.Errorf("expected human readable sizes, got:\n%s", out)
	}
}

func TestFindMount(t *testing.T) {
	mounts := []MountInfo{
		{Device: "/dev/sda1", MountPoint: "/", FSType: "ext4"},
		{Device: "/dev/sda2", MountPoint: "/home", FSType: "ext4"},
		{Device: "tmpfs", MountPoint: "/tmp", FSType: "tmpfs"},
	}

	tests := []struct {
		path       string
		wantDevice string
		wantFound  bool
	}{
		{"/home/alice/docs", "/dev/sda2", true},
		{"/homework", "/dev/sda1", true}, // not under /home
		{"/tmp/x", "tmpfs", true},
		{"/etc/passwd", "/dev/sda1", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, found := findMount(tt.path, mounts)
			if found != tt.wantFound {
				t.Fatalf("findMount(%q) found = %v, want %v", tt.path, found, tt.wantFound)
			}
			if found && m.Device != tt.wantDevice {
				t.Errorf("findMount(%q) device = %q, want %q", tt.path, m.Device, tt.wantDevice)
			}
		})
	}
}

func TestSortFilesystems(t *testing.T) {
	infos := []FilesystemInfo{
		{Filesystem: "b", Used: 100, Available: 10, Percent: 50},
		{Filesystem: "a", Used: 300, Available: 30, Percent: 90},
		{Filesystem: "c", Used: 200, Available: 20, Percent: 10},
	}

	sortFilesystems(infos, "used", false)
	if infos[0].Used != 300 || infos[2].Used != 100 {
		t.Errorf("expected descending used order, got %v", infos)
	}

	sortFilesystems(infos, "percent", true)
	if infos[0].Percent != 10 || infos[2].Percent != 90 {
		t.Errorf("expected ascending percent order with reverse, got %v", infos)
	}

	sortFilesystems(infos, "", false)
	if infos[0].Filesystem != "a" || infos[2].Filesystem != "c" {
		t.Errorf("expected name order, got %v", infos)
	}
}

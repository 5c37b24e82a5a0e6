//go:build linux

package df

import "testing"

func TestUnescapeMountField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/dev/sda1", "/dev/sda1"},
		{"/mnt/usb\\040drive", "/mnt/usb drive"},
		{"/mnt/back\\134slash", "/mnt/back\\slash"},
		{"/mnt/tab\\011here", "/mnt/tab\there"},
		{"\\04", "\\04"},   // too short to be an escape
		{"\\089", "\\089"}, // 8 is not an octal digit
	}

	for _, tt := range tests {
		if got := unescapeMountField(tt.in); got != tt.want {
			t.Errorf("unescapeMountField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetMounts(t *testing.T) {
	mounts, err := getMounts()
	if err != nil {
		t.Fatalf("getMounts failed: %v", err)
	}
	if len(mounts) == 0 {
		t.Fatal("expected at least one mount")
	}

	foundRoot := false
	for _, m := range mounts {
		if m.MountPoint == "/" {
			foundRoot = true
		}
		if m.FSType == "" {
			t.Errorf("mount %q has empty fs type", m.MountPoint)
		}
	}
	if !foundRoot {
		t.Error("expected / in mount table")
	}
}

func TestPseudoFilesystemClassification(t *testing.T) {
	if !isPseudoFilesystem("proc") || !isPseudoFilesystem("sysfs") {
		t.Error("proc and sysfs should classify as pseudo filesystems")
	}
	if isPseudoFilesystem("ext4") || isPseudoFilesystem("xfs") {
		t.Error("ext4 and xfs should not classify as pseudo filesystems")
	}
	if isLocalFilesystem("nfs4") {
		t.Error("nfs4 should not classify as local")
	}
	if !isLocalFilesystem("ext4") {
		t.Error("ext4 should classify as local")
	}
}

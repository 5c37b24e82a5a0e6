package basedir

import (
	"os"
	"path/filepath"
	"strings"
)

// UserDirectory identifies one of the well known per-user directories
// configured by xdg-user-dirs.
type UserDirectory string

const (
	Desktop     UserDirectory = "XDG_DESKTOP_DIR"
	Download    UserDirectory = "XDG_DOWNLOAD_DIR"
	Templates   UserDirectory = "XDG_TEMPLATES_DIR"
	PublicShare UserDirectory = "XDG_PUBLICSHARE_DIR"
	Documents   UserDirectory = "XDG_DOCUMENTS_DIR"
	Music       UserDirectory = "XDG_MUSIC_DIR"
	Pictures    UserDirectory = "XDG_PICTURES_DIR"
	Videos      UserDirectory = "XDG_VIDEOS_DIR"
)

// UserDirectories lists the well known directories in display order.
var UserDirectories = []UserDirectory{
	Desktop,
	Download,
	Templates,
	PublicShare,
	Documents,
	Music,
	Pictures,
	Videos,
}

var conventionalName = map[UserDirectory]string{
	Desktop:     "Desktop",
	Download:    "Downloads",
	Templates:   "Templates",
	PublicShare: "Public",
	Documents:   "Documents",
	Music:       "Music",
	Pictures:    "Pictures",
	Videos:      "Videos",
}

// Name returns the conventional folder name, like "Desktop".
func (d UserDirectory) Name() string {
	return conventionalName[d]
}

// LookupUserDir reads the path configured for d in user-dirs.dirs.
// It reports false when the configuration file or the key is missing.
func LookupUserDir(d UserDirectory) (string, bool) {
	content, err := os.ReadFile(filepath.Join(ConfigHome(), "user-dirs.dirs"))
	if err != nil {
		return "", false
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(content), "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found || UserDirectory(key) != d {
			continue
		}
		value = strings.ReplaceAll(value, "$HOME", home)
		return strings.Trim(value, `"`), true
	}

	return "", false
}

// UserDir returns the configured path for d, falling back to the
// conventional directory under the user's home when unconfigured.
// An entry pointing at the home directory itself counts as disabled,
// which is how xdg-user-dirs marks removed directories.
func UserDir(d UserDirectory) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	if path, ok := LookupUserDir(d); ok && path != "" && path != home {
		return path
	}

	return filepath.Join(home, conventionalName[d])
}

// Package trash implements the freedesktop.org home trash can: files
// are moved aside instead of unlinked, with a sidecar recording where
// they came from so they can be restored.
//
// https://specifications.freedesktop.org/trash-spec/latest/
package trash

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gigurra/sundry/pkg/basedir"
)

var (
	// ErrNotFound means no trashed entry has the requested name.
	ErrNotFound = errors.New("no such entry in trash")
	// ErrExists means restoring would overwrite an existing file.
	ErrExists = errors.New("restore target already exists")
)

const deletionDateLayout = "2006-01-02T15:04:05"

// Entry is one trashed file or directory.
type Entry struct {
	// Name inside the trash, unique within it.
	Name string
	// OriginalPath is where the entry lived before deletion.
	OriginalPath string
	DeletedAt    time.Time
	Size         int64
	IsDir        bool
}

// Dir returns the home trash directory.
func Dir() string {
	return filepath.Join(basedir.DataHome(), "Trash")
}

func filesDir() string { return filepath.Join(Dir(), "files") }
func infoDir() string  { return filepath.Join(Dir(), "info") }

// Put moves path into the trash and returns the name it was stored
// under. The move uses rename, so it only works within the filesystem
// holding the home directory.
func Put(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", err
	}

	if err := basedir.EnsureDir(filesDir()); err != nil {
		return "", fmt.Errorf("preparing trash: %w", err)
	}
	if err := basedir.EnsureDir(infoDir()); err != nil {
		return "", fmt.Errorf("preparing trash: %w", err)
	}

	name, infoFile, err := claimName(filepath.Base(abs))
	if err != nil {
		return "", err
	}

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapePath(abs), time.Now().Format(deletionDateLayout))
	if _, err := infoFile.WriteString(info); err != nil {
		infoFile.Close()
		_ = os.Remove(infoPath(name))
		return "", err
	}
	if err := infoFile.Close(); err != nil {
		_ = os.Remove(infoPath(name))
		return "", err
	}

	if err := os.Rename(abs, filepath.Join(filesDir(), name)); err != nil {
		_ = os.Remove(infoPath(name))
		return "", fmt.Errorf("moving %s to trash: %w", path, err)
	}

	return name, nil
}

// claimName finds a free name in the trash and reserves it by
// exclusively creating its info file.
func claimName(base string) (string, *os.File, error) {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := strings.TrimPrefix(base, stem)

	candidate := base
	for attempt := 2; ; attempt++ {
		_, statErr := os.Lstat(filepath.Join(filesDir(), candidate))
		if statErr != nil {
			f, err := os.OpenFile(infoPath(candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err == nil {
				return candidate, f, nil
			}
			if !os.IsExist(err) {
				return "", nil, err
			}
		}
		candidate = fmt.Sprintf("%s.%d%s", stem, attempt, ext)
	}
}

func infoPath(name string) string {
	return filepath.Join(infoDir(), name+".trashinfo")
}

// Entries lists the trash contents. Entries whose sidecar is missing
// or malformed are skipped.
func Entries() ([]Entry, error) {
	infos, err := os.ReadDir(infoDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, info := range infos {
		name, found := strings.CutSuffix(info.Name(), ".trashinfo")
		if !found {
			continue
		}

		entry, err := readEntry(name)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func readEntry(name string) (Entry, error) {
	content, err := os.ReadFile(infoPath(name))
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Name: name}
	for _, line := range strings.Split(string(content), "\n") {
		if value, found := strings.CutPrefix(line, "Path="); found && entry.OriginalPath == "" {
			entry.OriginalPath, err = url.PathUnescape(value)
			if err != nil {
				return Entry{}, err
			}
		}
		if value, found := strings.CutPrefix(line, "DeletionDate="); found && entry.DeletedAt.IsZero() {
			entry.DeletedAt, err = time.ParseInLocation(deletionDateLayout, value, time.Local)
			if err != nil {
				return Entry{}, err
			}
		}
	}
	if entry.OriginalPath == "" {
		return Entry{}, fmt.Errorf("sidecar for %s has no Path", name)
	}

	stat, err := os.Lstat(filepath.Join(filesDir(), name))
	if err != nil {
		return Entry{}, err
	}
	entry.Size = stat.Size()
	entry.IsDir = stat.IsDir()

	return entry, nil
}

// Restore moves a trashed entry back to its original path and returns
// that path. It refuses to overwrite and recreates missing parent
// directories.
func Restore(name string) (string, error) {
	entry, err := readEntry(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}

	if _, err := os.Lstat(entry.OriginalPath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, entry.OriginalPath)
	}

	if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), 0o755); err != nil {
		return "", err
	}
	if err := os.Rename(filepath.Join(filesDir(), name), entry.OriginalPath); err != nil {
		return "", err
	}
	_ = os.Remove(infoPath(name))

	return entry.OriginalPath, nil
}

// Empty deletes everything in the trash and returns how many entries
// were removed.
func Empty() (int, error) {
	files, err := os.ReadDir(filesDir())
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}

	count := 0
	for _, file := range files {
		if err := os.RemoveAll(filepath.Join(filesDir(), file.Name())); err != nil {
			return count, err
		}
		_ = os.Remove(infoPath(file.Name()))
		count++
	}

	// orphaned sidecars go too
	if infos, err := os.ReadDir(infoDir()); err == nil {
		for _, info := range infos {
			_ = os.Remove(filepath.Join(infoDir(), info.Name()))
		}
	}

	return count, nil
}

// escapePath percent encodes a path the way the trash spec wants,
// leaving the directory separators alone.
func escapePath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}

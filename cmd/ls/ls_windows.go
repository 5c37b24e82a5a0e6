//go:build windows

package ls

import (
	"io/fs"
	"os/user"
	"strings"
	"syscall"
)

// isExecutable reports whether name looks runnable. Windows decides by
// extension, but the unix bits are honored too for files that came from
// other systems.
func isExecutable(name string, mode fs.FileMode) bool {
	if mode&0111 != 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range []string{".exe", ".bat", ".cmd", ".com", ".ps1", ".msi"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// statExtra holds the fields the portable FileInfo does not expose.
type statExtra struct {
	Nlink  uint64
	Uid    uint32
	Gid    uint32
	Inode  uint64
	Blocks int64
	Valid  bool
}

// readStatExtra fills statExtra as far as Windows allows without
// opening the file: link counts and real file ids need a handle, so the
// creation time stands in as a pseudo inode and blocks are estimated
// from the size.
func readStatExtra(_ string, info fs.FileInfo) statExtra {
	extra := statExtra{
		Nlink:  1,
		Blocks: (info.Size() + 4095) / 4096,
		Valid:  true,
	}
	if winData, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		extra.Inode = uint64(winData.CreationTime.Nanoseconds())
	}
	return extra
}

// ownerName returns the file owner. Per file owners need the security
// API, so the current user stands in for all files.
func ownerName(_ statExtra, numeric bool) string {
	if u, err := user.Current(); err == nil {
		if numeric {
			return u.Uid
		}
		return u.Username
	}
	return "?"
}

func groupName(_ statExtra, numeric bool) string {
	u, err := user.Current()
	if err != nil {
		return "?"
	}
	if numeric {
		return u.Gid
	}
	if g, err := user.LookupGroupId(u.Gid); err == nil {
		return g.Name
	}
	// Group SIDs rarely resolve to friendly names, keep them short
	if len(u.Gid) > 5 {
		return u.Gid[:5] + ".."
	}
	return u.Gid
}

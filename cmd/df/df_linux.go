//go:build linux

package df

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// statFilesystem stats the filesystem behind path and labels the result
// with the given mount entry.
func statFilesystem(path string, mount MountInfo) (FilesystemInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FilesystemInfo{}, err
	}

	bsize := uint64(st.Bsize)
	info := FilesystemInfo{
		Filesystem: mount.Device,
		MountPoint: mount.MountPoint,
		FSType:     mount.FSType,
		Size:       st.Blocks * bsize,
		Available:  st.Bavail * bsize,
	}
	info.Used = info.Size - st.Bfree*bsize
	if info.Size > 0 {
		info.Percent = float64(info.Used) / float64(info.Size) * 100
	}

	// Some filesystems (drvfs among them) report bogus inode counts
	if st.Files > 0 && st.Ffree <= st.Files {
		info.IUsed = st.Files - st.Ffree
		info.IAvailable = st.Ffree
		info.IPercent = float64(info.IUsed) / float64(st.Files) * 100
	}

	return info, nil
}

// getMounts parses the mount table from /proc/mounts, falling back to
// /etc/mtab. Fields there escape whitespace octally: a mount point
// "/mnt/my disk" appears as /mnt/my\040disk.
func getMounts() ([]MountInfo, error) {
	file, err := os.Open("/proc/mounts")
	if err != nil {
		file, err = os.Open("/etc/mtab")
		if err != nil {
			return nil, err
		}
	}
	defer file.Close()

	var mounts []MountInfo
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, MountInfo{
			Device:     unescapeMountField(fields[0]),
			MountPoint: unescapeMountField(fields[1]),
			FSType:     fields[2],
		})
	}

	return mounts, scanner.Err()
}

// unescapeMountField undoes the \NNN octal escapes of /proc/mounts.
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if val, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				out.WriteByte(byte(val))
				i += 3
				continue
			}
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

var networkFsTypes = map[string]bool{
	"nfs": true, "nfs4": true, "cifs": true, "smb": true,
	"smbfs": true, "ncpfs": true, "afs": true, "gfs": true,
	"gfs2": true, "glusterfs": true, "ceph": true, "fuse.sshfs": true,
}

var pseudoFsTypes = map[string]bool{
	"sysfs": true, "proc": true, "devtmpfs": true, "devpts": true,
	"tmpfs": true, "securityfs": true, "cgroup": true, "cgroup2": true,
	"pstore": true, "debugfs": true, "hugetlbfs": true, "mqueue": true,
	"fusectl": true, "configfs": true, "binfmt_misc": true, "autofs": true,
	"efivarfs": true, "tracefs": true, "bpf": true, "overlay": true,
}

func isLocalFilesystem(fsType string) bool {
	return !networkFsTypes[fsType]
}

func isPseudoFilesystem(fsType string) bool {
	return pseudoFsTypes[fsType]
}

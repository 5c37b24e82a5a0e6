//go:build darwin

package df

import (
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

	info.IUsed = st.Files - st.Ffree
	info.IAvailable = st.Ffree
	if st.Files > 0 {
		info.IPercent = float64(info.IUsed) / float64(st.Files) * 100
	}

	return info, nil
}

// getMounts lists mounted filesystems via getfsstat. MNT_NOWAIT skips
// refreshing remote mounts, which is fine since every mount gets
// statted again before printing.
func getMounts() ([]MountInfo, error) {
	n, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, err
	}

	buf := make([]unix.Statfs_t, n)
	if _, err := unix.Getfsstat(buf, unix.MNT_NOWAIT); err != nil {
		return nil, err
	}

	mounts := make([]MountInfo, 0, len(buf))
	for _, st := range buf {
		mounts = append(mounts, MountInfo{
			Device:     nullTerminated(st.Mntfromname[:]),
			MountPoint: nullTerminated(st.Mntonname[:]),
			FSType:     nullTerminated(st.Fstypename[:]),
		})
	}

	return mounts, nil
}

// nullTerminated reads a C string out of a fixed size byte array field.
func nullTerminated(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

var networkFsTypes = map[string]bool{
	"nfs": true, "smbfs": true, "cifs": true, "afpfs": true,
	"webdav": true, "ftp": true,
}

var pseudoFsTypes = map[string]bool{
	"devfs": true, "autofs": true, "map": true, "nullfs": true,
}

func isLocalFilesystem(fsType string) bool {
	return !networkFsTypes[fsType]
}

func isPseudoFilesystem(fsType string) bool {
	return pseudoFsTypes[fsType]
}

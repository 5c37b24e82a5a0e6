//go:build windows

package df

import (
	"syscall"
	"unsafe"
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetDiskFreeSpace = kernel32.NewProc("GetDiskFreeSpaceExW")
	procGetLogicalDrives = kernel32.NewProc("GetLogicalDrives")
	procGetDriveType     = kernel32.NewProc("GetDriveTypeW")
	procGetVolumeInfo    = kernel32.NewProc("GetVolumeInformationW")
)

// statFilesystem reads sizes via GetDiskFreeSpaceEx and labels the
// result with the given mount entry. Windows has no inode concept, so
// the inode fields stay zero.
func statFilesystem(path string, mount MountInfo) (FilesystemInfo, error) {
	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return FilesystemInfo{}, err
	}

	var availableToCaller, total, totalFree uint64
	ret, _, callErr := procGetDiskFreeSpace.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&availableToCaller)),
		uintptr(unsafe.Pointer(&total)),
		uintptr(unsafe.Pointer(&totalFree)),
	)
	if ret == 0 {
		return FilesystemInfo{}, callErr
	}

	info := FilesystemInfo{
		Filesystem: mount.Device,
		MountPoint: mount.MountPoint,
		FSType:     mount.FSType,
		Size:       total,
		Available:  availableToCaller,
		Used:       total - totalFree,
	}
	if info.Size > 0 {
		info.Percent = float64(info.Used) / float64(info.Size) * 100
	}

	return info, nil
}

// getMounts lists the present drive letters, labeled with the drive
// type and the volume filesystem name.
func getMounts() ([]MountInfo, error) {
	ret, _, _ := procGetLogicalDrives.Call()
	mask := uint32(ret)

	var mounts []MountInfo
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}

		root := string(rune('A'+i)) + ":\\"
		rootPtr, err := syscall.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		driveType, _, _ := procGetDriveType.Call(uintptr(unsafe.Pointer(rootPtr)))

		fsType := "unknown"
		nameBuf := make([]uint16, 256)
		ok, _, _ := procGetVolumeInfo.Call(
			uintptr(unsafe.Pointer(rootPtr)),
			0, 0, 0, 0, 0,
			uintptr(unsafe.Pointer(&nameBuf[0])),
			uintptr(len(nameBuf)),
		)
		if ok != 0 {
			fsType = syscall.UTF16ToString(nameBuf)
		}

		mounts = append(mounts, MountInfo{
			Device:     string(rune('A'+i)) + ": (" + driveTypeName(driveType) + ")",
			MountPoint: root,
			FSType:     fsType,
		})
	}

	return mounts, nil
}

func driveTypeName(t uintptr) string {
	switch t {
	case 2:
		return "Removable"
	case 3:
		return "Fixed"
	case 4:
		return "Network"
	case 5:
		return "CD-ROM"
	case 6:
		return "RAM Disk"
	default:
		return "Unknown"
	}
}

func isLocalFilesystem(fsType string) bool {
	return fsType != "Network"
}

// Windows has no pseudo filesystems to hide.
func isPseudoFilesystem(string) bool {
	return false
}

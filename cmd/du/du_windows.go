//go:build windows

package du

import "io/fs"

// allocatedBytes estimates the bytes the file occupies on disk. Real
// allocation needs a per file GetCompressedFileSize call, so whole
// NTFS clusters are assumed instead.
func allocatedBytes(info fs.FileInfo) int64 {
	return estimateAllocated(info.Size())
}

//go:build linux || darwin

package du

import (
	"io/fs"
	"syscall"
)

// allocatedBytes reports the bytes the file actually occupies on disk.
// st_blocks counts 512 byte units regardless of the filesystem block
// size, so sparse files report less than their length and small files
// more.
func allocatedBytes(info fs.FileInfo) int64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Blocks * 512
	}
	return estimateAllocated(info.Size())
}

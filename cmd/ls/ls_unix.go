//go:build linux || darwin

package ls

import (
	"io/fs"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// isExecutable reports whether any execute bit is set.
func isExecutable(_ string, mode fs.FileMode) bool {
	return mode&0111 != 0
}

// statExtra holds the fields the portable FileInfo does not expose.
type statExtra struct {
	Nlink  uint64
	Uid    uint32
	Gid    uint32
	Inode  uint64
	Blocks int64 // 512 byte blocks
	Valid  bool
}

func readStatExtra(path string, _ fs.FileInfo) statExtra {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return statExtra{}
	}
	return statExtra{
		Nlink:  uint64(st.Nlink),
		Uid:    st.Uid,
		Gid:    st.Gid,
		Inode:  st.Ino,
		Blocks: st.Blocks,
		Valid:  true,
	}
}

// uid and gid lookups go through NSS and can be slow on big
// directories, so resolved names are memoized for the run.
var (
	uidNames = map[uint32]string{}
	gidNames = map[uint32]string{}
)

func ownerName(stat statExtra, numeric bool) string {
	if !stat.Valid {
		return "?"
	}
	uidStr := strconv.FormatUint(uint64(stat.Uid), 10)
	if numeric {
		return uidStr
	}
	if name, ok := uidNames[stat.Uid]; ok {
		return name
	}
	name := uidStr
	if u, err := user.LookupId(uidStr); err == nil {
		name = u.Username
	}
	uidNames[stat.Uid] = name
	return name
}

func groupName(stat statExtra, numeric bool) string {
	if !stat.Valid {
		return "?"
	}
	gidStr := strconv.FormatUint(uint64(stat.Gid), 10)
	if numeric {
		return gidStr
	}
	if name, ok := gidNames[stat.Gid]; ok {
		return name
	}
	name := gidStr
	if g, err := user.LookupGroupId(gidStr); err == nil {
		name = g.Name
	}
	gidNames[stat.Gid] = name
	return name
}

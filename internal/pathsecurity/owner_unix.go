//go:build !windows

package pathsecurity

import (
	"io/fs"
	"os"
	"syscall"
)

// componentOwner extracts POSIX ownership from a stat result.
func componentOwner(info fs.FileInfo) (uid, gid uint32, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return stat.Uid, stat.Gid, true
}

func currentUID() int {
	return os.Geteuid()
}

//go:build windows

package pathsecurity

import "io/fs"

// componentOwner reports no POSIX ownership on Windows; the checker then
// relies on the symlink and directory-type checks, with descriptor-level
// validation handled by the attribute comparison in the open path.
func componentOwner(_ fs.FileInfo) (uid, gid uint32, ok bool) {
	return 0, 0, false
}

func currentUID() int {
	return -1
}

//go:build linux || darwin

package fileident

import (
	"os"
	"syscall"
)

// AttributesByName reads the attribute record for the file at path.
// Lstat is used so a trailing symlink is reported as itself rather than
// silently followed.
func (r *OSReader) AttributesByName(path string) (*Attributes, error) {
	var st syscall.Stat_t
	if err := syscall.Lstat(path, &st); err != nil {
		return nil, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return attributesFromStat(&st), nil
}

// AttributesByFile reads the attribute record through an open handle.
func (r *OSReader) AttributesByFile(f *os.File) (*Attributes, error) {
	var st syscall.Stat_t
	if err := syscall.Fstat(int(f.Fd()), &st); err != nil {
		return nil, &os.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return attributesFromStat(&st), nil
}

// IdentityByFile reads the device+inode identity through an open handle.
func (r *OSReader) IdentityByFile(f *os.File) (Identity, error) {
	var st syscall.Stat_t
	if err := syscall.Fstat(int(f.Fd()), &st); err != nil {
		return Identity{}, &os.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return Identity{
		Platform: PlatformUnix,
		Device:   uint64(st.Dev), //nolint:unconvert // Dev is int32 on some platforms
		Inode:    st.Ino,
	}, nil
}

func attributesFromStat(st *syscall.Stat_t) *Attributes {
	atime, mtime, ctime := statTimes(st)
	return &Attributes{
		Device:       uint64(st.Dev), //nolint:unconvert // Dev is int32 on some platforms
		Inode:        st.Ino,
		Mode:         uint32(st.Mode),  //nolint:unconvert // Mode is uint16 on some platforms
		Nlink:        uint64(st.Nlink), //nolint:unconvert // Nlink is uint32 on some platforms
		UID:          st.Uid,
		GID:          st.Gid,
		RDev:         uint64(st.Rdev), //nolint:unconvert // Rdev is int32 on some platforms
		Size:         st.Size,
		AccessTimeMs: atime,
		ModifyTimeMs: mtime,
		ChangeTimeMs: ctime,
	}
}

func timespecMs(ts syscall.Timespec) int64 {
	const nsPerMs = 1_000_000
	return int64(ts.Sec)*1000 + int64(ts.Nsec)/nsPerMs
}

package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultDirPerm represents default directory permissions (rwxr-xr-x)
	DefaultDirPerm = 0o755

	// SymlinkPerm represents default symlink permissions (rwxrwxrwx)
	// In real systems the permission of a symlink is never used; the
	// permission of the target is used for permission checks.
	SymlinkPerm = 0o777
)

// Mock errors
var (
	// ErrMockNotSupported is returned for operations the mock does not implement
	ErrMockNotSupported = errors.New("operation not supported by mock file system")
)

// MockFileSystem implements FileSystem for testing
type MockFileSystem struct {
	entries map[string]*MockFileInfo
	// Symlinks maps symlink path to target path
	symlinks map[string]string
	cwd      string

	// Call counters used by tests that assert ordering policies
	LstatCalls      int
	FileExistsCalls int
}

// MockFileInfo implements fs.FileInfo for testing
type MockFileInfo struct {
	name      string
	size      int64
	mode      os.FileMode
	modTime   time.Time
	isDir     bool
	isSymlink bool
	uid       uint32
	gid       uint32
}

// Name returns the base name of the file
func (m *MockFileInfo) Name() string { return m.name }

// Size returns the length in bytes
func (m *MockFileInfo) Size() int64 { return m.size }

// Mode returns the file mode bits
func (m *MockFileInfo) Mode() os.FileMode {
	switch {
	case m.isSymlink:
		return m.mode | os.ModeSymlink
	case m.isDir:
		return m.mode | os.ModeDir
	default:
		return m.mode
	}
}

// ModTime returns the modification time
func (m *MockFileInfo) ModTime() time.Time { return m.modTime }

// IsDir reports whether m describes a directory
func (m *MockFileInfo) IsDir() bool { return m.isDir }

// Sys returns the underlying data source, matching what the platform's
// Lstat would report (a stat record carrying uid/gid on POSIX, nil on
// Windows).
func (m *MockFileInfo) Sys() any {
	return mockSys(m.uid, m.gid)
}

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	m := &MockFileSystem{
		entries:  make(map[string]*MockFileInfo),
		symlinks: make(map[string]string),
		cwd:      "/",
	}

	// Add root directory by default (owned by root with secure permissions)
	m.AddDirWithOwner("/", 0o755, 0, 0)

	return m
}

// AddDir adds a directory owned by root
func (m *MockFileSystem) AddDir(path string, perm os.FileMode) {
	m.AddDirWithOwner(path, perm, 0, 0)
}

// AddDirWithOwner adds a directory with explicit ownership
func (m *MockFileSystem) AddDirWithOwner(path string, perm os.FileMode, uid, gid uint32) {
	m.entries[filepath.Clean(path)] = &MockFileInfo{
		name:    filepath.Base(path),
		mode:    perm,
		modTime: time.Now(),
		isDir:   true,
		uid:     uid,
		gid:     gid,
	}
}

// AddFile adds a regular file owned by root
func (m *MockFileSystem) AddFile(path string, perm os.FileMode, size int64) {
	m.AddFileWithOwner(path, perm, size, 0, 0)
}

// AddFileWithOwner adds a regular file with explicit ownership
func (m *MockFileSystem) AddFileWithOwner(path string, perm os.FileMode, size int64, uid, gid uint32) {
	m.entries[filepath.Clean(path)] = &MockFileInfo{
		name:    filepath.Base(path),
		size:    size,
		mode:    perm,
		modTime: time.Now(),
		uid:     uid,
		gid:     gid,
	}
}

// AddSymlink adds a symlink pointing at target
func (m *MockFileSystem) AddSymlink(path, target string) {
	clean := filepath.Clean(path)
	m.symlinks[clean] = target
	m.entries[clean] = &MockFileInfo{
		name:      filepath.Base(path),
		mode:      SymlinkPerm,
		modTime:   time.Now(),
		isSymlink: true,
	}
}

// SetCwd sets the working directory returned by Getwd
func (m *MockFileSystem) SetCwd(path string) {
	m.cwd = filepath.Clean(path)
}

// Lstat returns file information without following symlinks
func (m *MockFileSystem) Lstat(path string) (fs.FileInfo, error) {
	m.LstatCalls++
	info, ok := m.entries[filepath.Clean(path)]
	if !ok {
		return nil, &os.PathError{Op: "lstat", Path: path, Err: os.ErrNotExist}
	}
	return info, nil
}

// Stat returns file information following one level of symlink indirection
func (m *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	clean := filepath.Clean(path)
	if target, ok := m.symlinks[clean]; ok {
		clean = filepath.Clean(target)
	}
	info, ok := m.entries[clean]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return info, nil
}

// FileExists checks if a file or directory exists
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	m.FileExistsCalls++
	_, ok := m.entries[filepath.Clean(path)]
	return ok, nil
}

// IsDir checks if the path is a directory
func (m *MockFileSystem) IsDir(path string) (bool, error) {
	info, ok := m.entries[filepath.Clean(path)]
	if !ok {
		return false, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return info.isDir, nil
}

// Getwd returns the mock working directory
func (m *MockFileSystem) Getwd() (string, error) {
	return m.cwd, nil
}

// OpenFile is not supported by the mock; tests that need real handles use
// temporary directories instead.
func (m *MockFileSystem) OpenFile(name string, _ int, _ os.FileMode) (*os.File, error) {
	return nil, fmt.Errorf("%w: open %s", ErrMockNotSupported, name)
}

// Remove removes an entry from the mock
func (m *MockFileSystem) Remove(path string) error {
	clean := filepath.Clean(path)
	if _, ok := m.entries[clean]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(m.entries, clean)
	delete(m.symlinks, clean)
	return nil
}

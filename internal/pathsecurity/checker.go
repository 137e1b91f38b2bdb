// Package pathsecurity validates that a directory path is not
// attacker-controllable. It walks the canonical path component by
// component, from leaf to root, rejecting symlinks and write permissions
// that would let another user redirect or replace path components
// (CWE-22 style attacks).
package pathsecurity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/isseis/go-secure-file/internal/common"
	"github.com/isseis/go-secure-file/internal/groupmembership"
)

// Error definitions for static error handling
var (
	// ErrInvalidPath indicates the path is empty, relative, or not a directory.
	ErrInvalidPath = errors.New("invalid directory path")

	// ErrInsecureComponent indicates a path component is a symlink or not a directory.
	ErrInsecureComponent = errors.New("insecure path component")

	// ErrInsecurePermissions indicates a path component is writable by a
	// user who should not control it.
	ErrInsecurePermissions = errors.New("insecure directory permissions")
)

// Root user and group IDs
const (
	UIDRoot = 0
	GIDRoot = 0
)

// Checker validates that every component of a directory path is secure.
type Checker interface {
	// CheckDirectory validates the directory at path and every ancestor up
	// to the root. The path must be absolute and canonical; passing a
	// non-directory fails the check.
	CheckDirectory(path string) error
}

// OSChecker implements Checker using filesystem ownership and permission
// bits. Group-writable components are tolerated only when owned by root or
// when the current user is provably the sole member of the owning group.
type OSChecker struct {
	fs         common.FileSystem
	membership groupmembership.Checker
}

// NewOSChecker creates an OSChecker backed by the real filesystem and the
// host user database.
func NewOSChecker() *OSChecker {
	return NewOSCheckerWith(common.NewDefaultFileSystem(), groupmembership.NewOSChecker())
}

// NewOSCheckerWith creates an OSChecker with injected collaborators for testing.
func NewOSCheckerWith(fsys common.FileSystem, membership groupmembership.Checker) *OSChecker {
	return &OSChecker{fs: fsys, membership: membership}
}

// CheckDirectory validates the complete path from the target directory to
// the filesystem root. Validating intermediate components matters: a secure
// leaf under a world-writable parent can still be replaced wholesale.
func (c *OSChecker) CheckDirectory(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: path must be absolute, got %s", ErrInvalidPath, path)
	}

	cleanPath := filepath.Clean(path)
	isDir, err := c.fs.IsDir(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", cleanPath, err)
	}
	if !isDir {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, cleanPath)
	}

	for currentPath := cleanPath; ; {
		info, err := c.fs.Lstat(currentPath)
		if err != nil {
			return fmt.Errorf("failed to stat path component %s: %w", currentPath, err)
		}

		if err := checkComponentMode(currentPath, info); err != nil {
			return err
		}
		if err := c.checkComponentPermissions(currentPath, info); err != nil {
			return err
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			break // Reached root directory
		}
		currentPath = parentPath
	}
	return nil
}

// checkComponentMode validates that a path component is a directory and not
// a symlink.
func checkComponentMode(path string, info fs.FileInfo) error {
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s is a symlink", ErrInsecureComponent, path)
	}
	if !info.Mode().IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInsecureComponent, path)
	}
	return nil
}

// checkComponentPermissions validates that nobody but root or the current
// user can write to a path component.
func (c *OSChecker) checkComponentPermissions(path string, info fs.FileInfo) error {
	uid, gid, ok := componentOwner(info)
	if !ok {
		// Platforms without POSIX ownership fall back to mode-only checks.
		return nil
	}

	perm := info.Mode().Perm()

	// World-writable directories are never acceptable, sticky bit or not:
	// an attacker can still create files and, on some filesystems, hard
	// links that survive the open.
	if perm&0o002 != 0 {
		return fmt.Errorf("%w: %s is writable by others (%04o)",
			ErrInsecurePermissions, path, perm)
	}

	if perm&0o020 != 0 && !(uid == UIDRoot && gid == GIDRoot) {
		soleMember, err := c.membership.IsCurrentUserSoleGroupMember(uid, gid)
		if err != nil {
			return fmt.Errorf("failed to check group membership for %s: %w", path, err)
		}
		if !soleMember {
			return fmt.Errorf("%w: %s has group write permissions (%04o) and is not owned by root (uid=%d, gid=%d)",
				ErrInsecurePermissions, path, perm, uid, gid)
		}
	}

	// The owner can always write; that is only safe when the owner is root
	// or the user on whose behalf we are validating.
	if perm&0o200 != 0 && uid != UIDRoot && int(uid) != currentUID() {
		return fmt.Errorf("%w: %s is writable by another user (uid=%d)",
			ErrInsecurePermissions, path, uid)
	}

	return nil
}

// Package pathresolver turns caller-supplied, untrusted paths into absolute,
// symlink-resolved, cleaned paths bounded to a maximum length. Canonical
// paths are the only form the security checker and the open path operate on.
package pathresolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxPathLength is the maximum length in bytes of a canonical path,
// including the final filename component.
const MaxPathLength = 4096

// Error definitions for static error handling
var (
	// ErrPathTooLong indicates the canonical form exceeds MaxPathLength.
	ErrPathTooLong = errors.New("canonical path exceeds maximum length")

	// ErrEmptyPath indicates an empty path was supplied.
	ErrEmptyPath = errors.New("path cannot be empty")
)

// Resolver resolves a path into its canonical absolute form.
type Resolver interface {
	Canonicalize(path string) (string, error)
}

// OSResolver implements Resolver against the real filesystem.
type OSResolver struct{}

// NewOSResolver creates a new OSResolver
func NewOSResolver() *OSResolver {
	return &OSResolver{}
}

// Canonicalize resolves path to an absolute, symlink-resolved, cleaned
// path. If the final component does not exist yet, the parent chain is
// resolved instead and the final component is re-attached, so a path for a
// file about to be created still canonicalizes.
func (r *OSResolver) Canonicalize(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		// Target does not exist yet: resolve the deepest existing ancestor
		// and re-attach the remaining components.
		resolved, err = resolveMissingTarget(abs)
		if err != nil {
			return "", err
		}
	}

	resolved = filepath.Clean(resolved)
	if len(resolved) > MaxPathLength {
		return "", fmt.Errorf("%w: %d > %d", ErrPathTooLong, len(resolved), MaxPathLength)
	}
	return resolved, nil
}

// resolveMissingTarget walks up from abs until it finds an existing
// ancestor, canonicalizes that, and joins the unresolved tail back on.
func resolveMissingTarget(abs string) (string, error) {
	dir := abs
	var tail []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding an existing ancestor.
			return abs, nil
		}
		tail = append([]string{filepath.Base(dir)}, tail...)
		dir = parent

		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve symlinks in %s: %w", dir, err)
		}
	}
}

// SplitPath splits name into its directory and filename portions. `/` always
// separates; `\` separates only on Windows, since on POSIX systems it is a
// legal filename byte. When both appear the later one in the string wins. The
// returned dir does not include the separator. A name with no separator
// returns an empty dir.
func SplitPath(name string) (dir, file string) {
	sep := lastSeparatorIndex(name)
	if sep < 0 {
		return "", name
	}
	if sep == 0 {
		// Root-relative name like "/etc": the directory is the separator itself.
		return name[:1], name[1:]
	}
	return name[:sep], name[sep+1:]
}

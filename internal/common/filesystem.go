// Package common provides shared interfaces and utilities used across the
// secure file packages.
//
//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Error definitions for static error handling
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// FileSystem defines the interface for file system operations.
// This interface allows for easy mocking in tests and provides a consistent
// API for file operations across all packages.
type FileSystem interface {
	// Lstat returns file information without following symlinks
	Lstat(path string) (fs.FileInfo, error)

	// Stat returns file information following symlinks
	Stat(path string) (fs.FileInfo, error)

	// FileExists checks if a file or directory exists
	FileExists(path string) (bool, error)

	// IsDir checks if the path is a directory
	IsDir(path string) (bool, error)

	// Getwd returns the process's current working directory
	Getwd() (string, error)

	// OpenFile opens a file with the given flags and permissions
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)

	// Remove removes a single file or empty directory
	Remove(path string) error
}

// DefaultFileSystem implements FileSystem using standard os package functions
type DefaultFileSystem struct{}

// NewDefaultFileSystem creates a new DefaultFileSystem
func NewDefaultFileSystem() *DefaultFileSystem {
	return &DefaultFileSystem{}
}

// Lstat returns file information without following symlinks
func (fs *DefaultFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Stat returns file information following symlinks
func (fs *DefaultFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// FileExists checks if a file or directory exists
func (fs *DefaultFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// IsDir checks if the path is a directory
func (fs *DefaultFileSystem) IsDir(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Getwd returns the process's current working directory
func (fs *DefaultFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// OpenFile opens a file with the given flags and permissions
func (fs *DefaultFileSystem) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	// #nosec G304 - callers validate the path before opening
	return os.OpenFile(name, flag, perm)
}

// Remove removes a single file or empty directory
func (fs *DefaultFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// ResolvedPath is a type that represents a file path that has been resolved
// (e.g., through symlink resolution or absolute path conversion).
type ResolvedPath string

// NewResolvedPath creates a new ResolvedPath from a string.
// Returns an error if the path is empty.
func NewResolvedPath(path string) (ResolvedPath, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	return ResolvedPath(path), nil
}

func (p ResolvedPath) String() string {
	return string(p)
}

// ContainsPathTraversalSegment checks if a path contains ".." as a distinct path segment
// This avoids false positives for legitimate filenames that contain ".." (e.g., "archive..zip")
func ContainsPathTraversalSegment(path string) bool {
	// Split the path into segments and check if any segment is ".."
	segments := strings.Split(path, string(filepath.Separator))
	return slices.Contains(segments, "..")
}

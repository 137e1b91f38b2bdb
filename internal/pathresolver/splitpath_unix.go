//go:build !windows

package pathresolver

import "strings"

// lastSeparatorIndex returns the index of the last path separator in name,
// or -1 if there is none. On POSIX systems only `/` separates.
func lastSeparatorIndex(name string) int {
	return strings.LastIndexByte(name, '/')
}

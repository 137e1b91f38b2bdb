//go:build windows

package pathresolver

import "strings"

// lastSeparatorIndex returns the index of the last path separator in name,
// or -1 if there is none. Windows accepts both `/` and `\`; the later one
// in the string wins.
func lastSeparatorIndex(name string) int {
	slash := strings.LastIndexByte(name, '/')
	backslash := strings.LastIndexByte(name, '\\')
	if backslash > slash {
		return backslash
	}
	return slash
}

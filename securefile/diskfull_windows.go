//go:build windows

package securefile

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isDiskFull reports whether a write error indicates an out-of-space
// condition.
func isDiskFull(err error) bool {
	return errors.Is(err, windows.ERROR_DISK_FULL) || errors.Is(err, windows.ERROR_HANDLE_DISK_FULL)
}

//go:build !windows

package securefile

import (
	"errors"
	"syscall"
)

// isDiskFull reports whether a write error indicates an out-of-space
// condition, including exceeded quotas.
func isDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT)
}

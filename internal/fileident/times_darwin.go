//go:build darwin

package fileident

import "syscall"

func statTimes(st *syscall.Stat_t) (atimeMs, mtimeMs, ctimeMs int64) {
	return timespecMs(st.Atimespec), timespecMs(st.Mtimespec), timespecMs(st.Ctimespec)
}

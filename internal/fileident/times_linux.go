//go:build linux

package fileident

import "syscall"

func statTimes(st *syscall.Stat_t) (atimeMs, mtimeMs, ctimeMs int64) {
	return timespecMs(st.Atim), timespecMs(st.Mtim), timespecMs(st.Ctim)
}

//go:build !windows

package common

import "syscall"

func mockSys(uid, gid uint32) any {
	return &syscall.Stat_t{
		Uid: uid,
		Gid: gid,
	}
}

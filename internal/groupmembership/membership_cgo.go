//go:build cgo && !windows

package groupmembership

/*
#include <sys/types.h>
#include <grp.h>
#include <errno.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// groupMembers returns the explicit member names of the group with the
// given gid, using the reentrant getgrgid_r so NSS-backed group sources
// (LDAP, SSSD) are consulted the same way the rest of the system sees them.
// Primary-group-only users do not appear in this list.
func groupMembers(gid uint32) ([]string, error) {
	bufLen := C.size_t(1024)
	for {
		buf := C.malloc(bufLen)
		if buf == nil {
			return nil, fmt.Errorf("failed to allocate group lookup buffer (%d bytes)", bufLen)
		}

		var grp C.struct_group
		var result *C.struct_group
		rv := C.getgrgid_r(C.gid_t(gid), &grp, (*C.char)(buf), bufLen, &result)
		if rv == 0 {
			members := memberNames(result)
			C.free(buf)
			return members, nil
		}

		C.free(buf)
		if rv != C.ERANGE {
			return nil, fmt.Errorf("getgrgid_r failed for gid %d: errno %d", gid, int(rv))
		}
		bufLen *= 2
	}
}

// memberNames walks the NULL-terminated gr_mem array.
func memberNames(grp *C.struct_group) []string {
	if grp == nil || grp.gr_mem == nil {
		return nil
	}

	var names []string
	base := unsafe.Pointer(grp.gr_mem)
	ptrSize := unsafe.Sizeof(grp.gr_mem)
	for i := uintptr(0); ; i++ {
		p := *(**C.char)(unsafe.Pointer(uintptr(base) + i*ptrSize))
		if p == nil {
			return names
		}
		names = append(names, C.GoString(p))
	}
}

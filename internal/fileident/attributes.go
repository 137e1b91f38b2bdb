// Package fileident reads and compares file attribute and identity records.
// Attribute records are the normalized form of a stat result (device, inode,
// ownership, size, timestamps); identity records are the compact token used
// to detect a file being swapped between validation and use.
package fileident

import (
	"github.com/isseis/go-secure-file/internal/common"
)

// Attributes is a normalized file attribute record. The numeric fields come
// from the platform stat call; SecurityDescriptor is populated only on
// Windows and holds the SDDL serialization of the file's security
// descriptor, which is access-control-sensitive and must be scrubbed with
// Zero before the record is discarded.
type Attributes struct {
	Device       uint64
	Inode        uint64
	Mode         uint32 // raw platform mode bits
	Nlink        uint64
	UID          uint32
	GID          uint32
	RDev         uint64
	Size         int64
	AccessTimeMs int64 // milliseconds since Unix epoch
	ModifyTimeMs int64
	ChangeTimeMs int64
	Flags        uint32 // platform-specific flags (Windows file attributes)

	SecurityDescriptor []byte
}

// Zero scrubs the sensitive parts of the record. It is safe to call on a
// nil receiver and safe to call more than once.
func (a *Attributes) Zero() {
	if a == nil {
		return
	}
	common.ExplicitZero(a.SecurityDescriptor)
	a.SecurityDescriptor = nil
}

// AttributesMatch reports whether two attribute records identify the same
// file with the same ownership. It compares device id, inode, owner and
// group; on Windows it additionally requires structural equivalence of the
// owner SID, group SID and DACL. Two nil records match; a nil record never
// matches a non-nil one.
func AttributesMatch(a, b *Attributes) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Device != b.Device || a.Inode != b.Inode {
		return false
	}
	if a.UID != b.UID || a.GID != b.GID {
		return false
	}
	return descriptorsMatch(a, b)
}

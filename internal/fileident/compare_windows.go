//go:build windows

package fileident

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// descriptorsMatch compares the structural form of two serialized security
// descriptors: owner SID, group SID, and the DACL ACE-by-ACE. Comparing the
// SDDL strings byte-for-byte would be wrong because semantically identical
// descriptors can serialize differently, so both sides are parsed back into
// structures first.
func descriptorsMatch(a, b *Attributes) bool {
	if len(a.SecurityDescriptor) == 0 && len(b.SecurityDescriptor) == 0 {
		return true
	}
	if len(a.SecurityDescriptor) == 0 || len(b.SecurityDescriptor) == 0 {
		return false
	}

	sda, err := windows.SecurityDescriptorFromString(string(a.SecurityDescriptor))
	if err != nil {
		return false
	}
	sdb, err := windows.SecurityDescriptorFromString(string(b.SecurityDescriptor))
	if err != nil {
		return false
	}

	if !sidsMatch(descriptorOwner(sda), descriptorOwner(sdb)) {
		return false
	}
	if !sidsMatch(descriptorGroup(sda), descriptorGroup(sdb)) {
		return false
	}
	return daclsMatch(sda, sdb)
}

func descriptorOwner(sd *windows.SECURITY_DESCRIPTOR) *windows.SID {
	sid, _, err := sd.Owner()
	if err != nil {
		return nil
	}
	return sid
}

func descriptorGroup(sd *windows.SECURITY_DESCRIPTOR) *windows.SID {
	sid, _, err := sd.Group()
	if err != nil {
		return nil
	}
	return sid
}

// sidsMatch compares SIDs in their canonical S-1-... form, which is
// independent of how the descriptor happened to be serialized.
func sidsMatch(a, b *windows.SID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func daclsMatch(sda, sdb *windows.SECURITY_DESCRIPTOR) bool {
	acla, presentA, err := sda.DACL()
	if err != nil {
		return false
	}
	aclb, presentB, err := sdb.DACL()
	if err != nil {
		return false
	}
	if presentA != presentB {
		return false
	}
	if !presentA || (acla == nil && aclb == nil) {
		return acla == aclb || presentA
	}
	if acla == nil || aclb == nil {
		return false
	}

	acesA := collectAces(acla)
	acesB := collectAces(aclb)
	if len(acesA) != len(acesB) {
		return false
	}
	for i := range acesA {
		if !acesMatch(acesA[i], acesB[i]) {
			return false
		}
	}
	return true
}

func collectAces(acl *windows.ACL) []*windows.ACCESS_ALLOWED_ACE {
	var aces []*windows.ACCESS_ALLOWED_ACE
	for i := uint32(0); ; i++ {
		var ace *windows.ACCESS_ALLOWED_ACE
		if err := windows.GetAce(acl, i, &ace); err != nil {
			break
		}
		aces = append(aces, ace)
	}
	return aces
}

func acesMatch(a, b *windows.ACCESS_ALLOWED_ACE) bool {
	if a.Header.AceType != b.Header.AceType ||
		a.Header.AceFlags != b.Header.AceFlags ||
		a.Header.AceSize != b.Header.AceSize {
		return false
	}
	if a.Mask != b.Mask {
		return false
	}
	return sidsMatch(aceSid(a), aceSid(b))
}

func aceSid(ace *windows.ACCESS_ALLOWED_ACE) *windows.SID {
	// The SID is stored inline starting at the SidStart field.
	return (*windows.SID)(unsafe.Pointer(&ace.SidStart))
}

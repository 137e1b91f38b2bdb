// Package groupmembership answers ownership questions about file groups:
// specifically whether the current user is the file owner and the only
// member of the file's group. The directory security checker uses this to
// decide when group-writable permissions are not attacker-controllable.
//
// Member enumeration has two implementations selected at build time: a cgo
// path querying the system group database via getgrgid_r, and a pure-Go
// fallback parsing /etc/group when cgo is disabled.
package groupmembership

import (
	"fmt"
	"os/user"
	"slices"
	"strconv"
)

// Checker answers sole-group-member queries. It is an interface so the
// path security walk can be tested without depending on the host's user
// database.
type Checker interface {
	// IsCurrentUserSoleGroupMember reports whether the current user owns
	// the file (matches fileUID) and is the only member of fileGID.
	IsCurrentUserSoleGroupMember(fileUID, fileGID uint32) (bool, error)
}

// OSChecker implements Checker against the host user and group databases.
type OSChecker struct{}

// NewOSChecker creates a new OSChecker
func NewOSChecker() *OSChecker {
	return &OSChecker{}
}

// IsCurrentUserSoleGroupMember implements the check in three steps:
// the current user must be the file owner, must be a member of the file's
// group, and must be the ONLY member of that group.
func (c *OSChecker) IsCurrentUserSoleGroupMember(fileUID, fileGID uint32) (bool, error) {
	currentUser, err := user.Current()
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	currentUID, err := strconv.ParseUint(currentUser.Uid, 10, 32)
	if err != nil {
		return false, fmt.Errorf("failed to parse current user UID: %w", err)
	}
	if uint32(currentUID) != fileUID {
		return false, nil // Not the file owner
	}

	groupIDs, err := currentUser.GroupIds()
	if err != nil {
		return false, fmt.Errorf("failed to get user group memberships: %w", err)
	}

	fileGidStr := strconv.FormatUint(uint64(fileGID), 10)
	if !slices.Contains(groupIDs, fileGidStr) && currentUser.Gid != fileGidStr {
		return false, nil // User is not in the file's group
	}

	members, err := groupMembers(fileGID)
	if err != nil {
		return false, fmt.Errorf("failed to get group members: %w", err)
	}

	if len(members) == 0 {
		// Group has no explicit member list; it can still be the user's
		// primary group, in which case the user is the only member we can
		// establish.
		return currentUser.Gid == fileGidStr, nil
	}
	return len(members) == 1 && members[0] == currentUser.Username, nil
}

//go:build !windows

package pathsecurity

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-secure-file/internal/common"
)

// stubMembership answers sole-group-member queries with a fixed result.
type stubMembership struct {
	sole bool
	err  error
}

func (s *stubMembership) IsCurrentUserSoleGroupMember(_, _ uint32) (bool, error) {
	return s.sole, s.err
}

func newTestChecker(fsys common.FileSystem, sole bool) *OSChecker {
	return NewOSCheckerWith(fsys, &stubMembership{sole: sole})
}

func TestCheckDirectoryValidatesInput(t *testing.T) {
	checker := newTestChecker(common.NewMockFileSystem(), false)

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "relative path", path: "usr/local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, checker.CheckDirectory(tt.path), ErrInvalidPath)
		})
	}
}

func TestCheckDirectoryNotADirectory(t *testing.T) {
	mockFS := common.NewMockFileSystem()
	mockFS.AddDir("/data", 0o755)
	mockFS.AddFile("/data/file.txt", 0o644, 10)

	checker := newTestChecker(mockFS, false)
	assert.ErrorIs(t, checker.CheckDirectory("/data/file.txt"), ErrInvalidPath)
}

func TestCheckDirectorySecurePath(t *testing.T) {
	mockFS := common.NewMockFileSystem()
	mockFS.AddDir("/usr", 0o755)
	mockFS.AddDir("/usr/local", 0o755)
	mockFS.AddDir("/usr/local/etc", 0o755)

	checker := newTestChecker(mockFS, false)
	require.NoError(t, checker.CheckDirectory("/usr/local/etc"))

	// Every component up to the root was inspected.
	assert.Equal(t, 4, mockFS.LstatCalls)
}

func TestCheckDirectoryWorldWritable(t *testing.T) {
	tests := []struct {
		name string
		perm os.FileMode
	}{
		{name: "plain world-writable", perm: 0o777},
		{name: "sticky bit does not help", perm: os.ModeSticky | 0o1777},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := common.NewMockFileSystem()
			mockFS.AddDir("/tmp", tt.perm)
			mockFS.AddDir("/tmp/work", 0o755)

			checker := newTestChecker(mockFS, false)
			err := checker.CheckDirectory("/tmp/work")
			assert.ErrorIs(t, err, ErrInsecurePermissions)
		})
	}
}

func TestCheckDirectoryWorldWritableAncestor(t *testing.T) {
	// A secure leaf under an insecure ancestor is still rejected: the
	// ancestor's owner can replace the whole subtree.
	mockFS := common.NewMockFileSystem()
	mockFS.AddDir("/srv", 0o777)
	mockFS.AddDir("/srv/app", 0o755)
	mockFS.AddDir("/srv/app/conf", 0o755)

	checker := newTestChecker(mockFS, false)
	assert.ErrorIs(t, checker.CheckDirectory("/srv/app/conf"), ErrInsecurePermissions)
}

func TestCheckDirectoryGroupWritable(t *testing.T) {
	uid := uint32(os.Geteuid())

	tests := []struct {
		name       string
		dirUID     uint32
		dirGID     uint32
		soleMember bool
		wantErr    error
	}{
		{
			name:   "root-owned group-writable is allowed",
			dirUID: 0,
			dirGID: 0,
		},
		{
			name:       "sole group member is allowed",
			dirUID:     uid,
			dirGID:     1000,
			soleMember: true,
		},
		{
			name:       "shared group is rejected",
			dirUID:     uid,
			dirGID:     1000,
			soleMember: false,
			wantErr:    ErrInsecurePermissions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := common.NewMockFileSystem()
			mockFS.AddDirWithOwner("/data", 0o775, tt.dirUID, tt.dirGID)

			checker := newTestChecker(mockFS, tt.soleMember)
			err := checker.CheckDirectory("/data")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckDirectoryMembershipLookupFailure(t *testing.T) {
	mockFS := common.NewMockFileSystem()
	mockFS.AddDirWithOwner("/data", 0o775, uint32(os.Geteuid()), 1000)

	checker := NewOSCheckerWith(mockFS, &stubMembership{
		err: fmt.Errorf("user database unavailable"),
	})
	err := checker.CheckDirectory("/data")
	assert.ErrorContains(t, err, "user database unavailable")
}

func TestCheckDirectoryForeignOwner(t *testing.T) {
	// A component writable by a user who is neither root nor the current
	// user is attacker-controllable.
	foreign := uint32(os.Geteuid()) + 1

	mockFS := common.NewMockFileSystem()
	mockFS.AddDirWithOwner("/data", 0o755, foreign, foreign)

	checker := newTestChecker(mockFS, false)
	assert.ErrorIs(t, checker.CheckDirectory("/data"), ErrInsecurePermissions)
}

func TestCheckDirectorySymlinkLeaf(t *testing.T) {
	// The leaf is rejected before the walk: IsDir does not follow symlinks.
	mockFS := common.NewMockFileSystem()
	mockFS.AddDir("/real", 0o755)
	mockFS.AddSymlink("/data", "/real")

	checker := newTestChecker(mockFS, false)
	assert.ErrorIs(t, checker.CheckDirectory("/data"), ErrInvalidPath)
}

func TestCheckDirectorySymlinkComponent(t *testing.T) {
	mockFS := common.NewMockFileSystem()
	mockFS.AddSymlink("/data", "/real")
	mockFS.AddDir("/data/sub", 0o755)

	checker := newTestChecker(mockFS, false)
	err := checker.CheckDirectory("/data/sub")
	assert.ErrorIs(t, err, ErrInsecureComponent)
}

func TestCheckDirectoryMissingComponent(t *testing.T) {
	checker := newTestChecker(common.NewMockFileSystem(), false)
	assert.Error(t, checker.CheckDirectory("/does/not/exist"))
}

//go:build linux || darwin

package fileident

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesByNameAndByFileAgree(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sample.bin")
	require.NoError(t, os.WriteFile(name, []byte("12345"), 0o600))

	r := NewOSReader()

	byName, err := r.AttributesByName(name)
	require.NoError(t, err)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	byFile, err := r.AttributesByFile(f)
	require.NoError(t, err)

	assert.True(t, AttributesMatch(byName, byFile))
	assert.Equal(t, int64(5), byFile.Size)
	assert.Equal(t, uint32(os.Geteuid()), byFile.UID)
	assert.Positive(t, byFile.ModifyTimeMs)
}

func TestAttributesByNameDoesNotFollowSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.bin")
	require.NoError(t, os.WriteFile(target, []byte("target"), 0o600))
	link := filepath.Join(dir, "link.bin")
	require.NoError(t, os.Symlink(target, link))

	r := NewOSReader()

	targetAttrs, err := r.AttributesByName(target)
	require.NoError(t, err)
	linkAttrs, err := r.AttributesByName(link)
	require.NoError(t, err)

	assert.NotEqual(t, targetAttrs.Inode, linkAttrs.Inode,
		"the symlink itself must be reported, not its target")
}

func TestAttributesByNameMissing(t *testing.T) {
	r := NewOSReader()
	_, err := r.AttributesByName(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIdentityByFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "id.bin")
	require.NoError(t, os.WriteFile(name, []byte("x"), 0o600))

	r := NewOSReader()

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	id, err := r.IdentityByFile(f)
	require.NoError(t, err)
	assert.Equal(t, PlatformUnix, id.Platform)
	assert.True(t, id.Valid())

	// The identity agrees with the stat-based attribute record.
	attrs, err := r.AttributesByFile(f)
	require.NoError(t, err)
	assert.Equal(t, attrs.Device, id.Device)
	assert.Equal(t, attrs.Inode, id.Inode)

	// A different file on the same filesystem has a different identity.
	other := filepath.Join(dir, "other.bin")
	require.NoError(t, os.WriteFile(other, []byte("y"), 0o600))
	of, err := os.Open(other)
	require.NoError(t, err)
	defer of.Close()

	otherID, err := r.IdentityByFile(of)
	require.NoError(t, err)
	assert.False(t, IdentityMatch(id, otherID))
}

package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-secure-file/securefile"
)

// allowAllChecker bypasses the directory security walk so tests can run
// under world-writable temp hierarchies.
type allowAllChecker struct{}

func (allowAllChecker) CheckDirectory(string) error { return nil }

func testLoader() *Loader {
	return NewLoaderWithOptions(securefile.WithDirectoryChecker(allowAllChecker{}))
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	content := `
[[extension]]
ext = ".toml"

[[extension]]
ext = ".JSON"
case_insensitive = true

[limits]
max_file_size = 1048576

[[expect]]
path = "/etc/app/config.toml"
platform = "unix"
device = 2049
inode = 99
uid = 0
gid = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := testLoader().Load(path)
	require.NoError(t, err)

	assert.Len(t, p.Extensions, 2)
	assert.True(t, p.Extensions[1].CaseInsensitive)
	assert.Equal(t, int64(1048576), p.Limits.MaxFileSize)

	e, ok := p.ExpectationFor("/etc/app/config.toml")
	require.True(t, ok)
	assert.Equal(t, uint64(99), e.Inode)
}

func TestLoaderLoadMissingFile(t *testing.T) {
	_, err := testLoader().Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, securefile.ErrInvalidFile)
}

func TestLoaderLoadMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[extension\next ="), 0o600))

	_, err := testLoader().Load(path)
	assert.ErrorContains(t, err, "failed to parse policy file")
}

func TestLoaderLoadInvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(path, []byte("[limits]\nmax_file_size = -1\n"), 0o600))

	_, err := testLoader().Load(path)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestLoaderSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.toml")

	p := &Policy{
		Extensions: []ExtensionEntry{{Ext: ".toml"}},
		Expectations: []Expectation{
			{Path: "/data/file.bin", Platform: "unix", Device: 1, Inode: 2, UID: 3, GID: 4},
		},
	}

	loader := testLoader()
	require.NoError(t, loader.Save(path, p))

	got, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Extensions, got.Extensions)
	assert.Equal(t, p.Expectations, got.Expectations)
}

func TestLoaderSaveRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	err := testLoader().Save(path, &Policy{})
	assert.ErrorIs(t, err, securefile.ErrFileExists)
}

func TestLoaderSaveInvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "never-written.toml")

	err := testLoader().Save(path, &Policy{Limits: Limits{MaxFileSize: -1}})
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "invalid policy must not be written")
}

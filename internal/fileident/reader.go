package fileident

import "os"

// Reader reads attribute and identity records for files, either by path
// (before the file is opened) or through an open handle (after). Reading
// through the handle is immune to the path being re-pointed between the two
// reads, which is why callers compare both.
type Reader interface {
	// AttributesByName reads the attribute record for the file at path
	// without following a trailing symlink.
	AttributesByName(path string) (*Attributes, error)

	// AttributesByFile reads the attribute record through an open handle.
	AttributesByFile(f *os.File) (*Attributes, error)

	// IdentityByFile reads the unique-identity token through an open handle.
	IdentityByFile(f *os.File) (Identity, error)
}

// OSReader implements Reader using the host platform's stat facilities.
type OSReader struct{}

// NewOSReader creates a new OSReader
func NewOSReader() *OSReader {
	return &OSReader{}
}

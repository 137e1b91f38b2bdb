package fileident

// Platform discriminates which representation an Identity carries.
// Identities produced on different platforms never compare equal, even if
// their payload bytes happen to coincide.
type Platform uint8

// Platform values
const (
	PlatformUnknown Platform = iota
	PlatformUnix
	PlatformWindows
)

// Identity is a compact unique-identity token for an open file: device and
// inode on POSIX systems, volume serial number and file ID on Windows. It
// is used purely for equality comparison.
type Identity struct {
	Platform Platform

	// POSIX representation
	Device uint64
	Inode  uint64

	// Windows representation
	VolumeSerial uint32
	FileID       [16]byte
}

// Valid reports whether the identity was produced by a platform reader.
func (id Identity) Valid() bool {
	return id.Platform != PlatformUnknown
}

// IdentityMatch reports whether two identities refer to the same file.
// Both sides must carry the same platform discriminant.
func IdentityMatch(a, b Identity) bool {
	return a == b
}

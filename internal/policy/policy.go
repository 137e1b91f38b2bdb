// Package policy defines the TOML policy files consumed by the command-line
// tools: which filename extensions may be opened, size limits, and recorded
// attribute/identity expectations that pin a path to a specific file.
package policy

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/isseis/go-secure-file/internal/fileident"
	"github.com/isseis/go-secure-file/securefile"
)

// Error definitions for static error handling
var (
	// ErrInvalidExpectation indicates an expectation entry is malformed.
	ErrInvalidExpectation = errors.New("invalid expectation entry")

	// ErrInvalidLimit indicates a negative size limit.
	ErrInvalidLimit = errors.New("invalid size limit")
)

// Policy is the root of a policy file.
type Policy struct {
	Extensions   []ExtensionEntry `toml:"extension"`
	Limits       Limits           `toml:"limits"`
	Expectations []Expectation    `toml:"expect"`
}

// ExtensionEntry is one allowed filename extension.
type ExtensionEntry struct {
	Ext             string `toml:"ext"`
	CaseInsensitive bool   `toml:"case_insensitive"`
}

// Limits bounds resource usage of policy-driven reads.
type Limits struct {
	// MaxFileSize caps readable file size in bytes; zero means the
	// library default applies.
	MaxFileSize int64 `toml:"max_file_size"`
}

// Expectation records the attributes and identity a path must still have
// when it is opened later.
type Expectation struct {
	Path string `toml:"path"`

	Device uint64 `toml:"device"`
	Inode  uint64 `toml:"inode"`
	UID    uint32 `toml:"uid"`
	GID    uint32 `toml:"gid"`

	// Platform is "unix" or "windows"; it selects the identity payload.
	Platform     string `toml:"platform"`
	VolumeSerial uint32 `toml:"volume_serial,omitempty"`
	FileID       string `toml:"file_id,omitempty"` // hex encoded, Windows only
}

// Rules converts the extension entries into the library's rule form.
func (p *Policy) Rules() []securefile.ExtensionRule {
	rules := make([]securefile.ExtensionRule, 0, len(p.Extensions))
	for _, e := range p.Extensions {
		rules = append(rules, securefile.ExtensionRule{
			Ext:             e.Ext,
			CaseInsensitive: e.CaseInsensitive,
		})
	}
	return rules
}

// ExpectationFor returns the recorded expectation for path, if any.
func (p *Policy) ExpectationFor(path string) (*Expectation, bool) {
	for i := range p.Expectations {
		if p.Expectations[i].Path == path {
			return &p.Expectations[i], true
		}
	}
	return nil, false
}

// Validate checks structural invariants of a loaded policy.
func (p *Policy) Validate() error {
	if p.Limits.MaxFileSize < 0 {
		return fmt.Errorf("%w: max_file_size must not be negative", ErrInvalidLimit)
	}
	for i := range p.Expectations {
		e := &p.Expectations[i]
		if e.Path == "" {
			return fmt.Errorf("%w: expectation %d has no path", ErrInvalidExpectation, i)
		}
		if _, err := e.Identity(); err != nil {
			return err
		}
	}
	return nil
}

// Attributes converts the expectation into the comparator's record form.
func (e *Expectation) Attributes() *fileident.Attributes {
	return &fileident.Attributes{
		Device: e.Device,
		Inode:  e.Inode,
		UID:    e.UID,
		GID:    e.GID,
	}
}

// Identity converts the expectation into the comparator's identity form.
// An empty platform yields an invalid identity, meaning no identity pin.
func (e *Expectation) Identity() (fileident.Identity, error) {
	switch e.Platform {
	case "":
		return fileident.Identity{}, nil
	case "unix":
		return fileident.Identity{
			Platform: fileident.PlatformUnix,
			Device:   e.Device,
			Inode:    e.Inode,
		}, nil
	case "windows":
		id := fileident.Identity{
			Platform:     fileident.PlatformWindows,
			VolumeSerial: e.VolumeSerial,
		}
		raw, err := hex.DecodeString(e.FileID)
		if err != nil {
			return fileident.Identity{}, fmt.Errorf("%w: bad file_id for %s: %v", ErrInvalidExpectation, e.Path, err)
		}
		if len(raw) > len(id.FileID) {
			return fileident.Identity{}, fmt.Errorf("%w: file_id for %s exceeds 16 bytes", ErrInvalidExpectation, e.Path)
		}
		copy(id.FileID[:], raw)
		return id, nil
	default:
		return fileident.Identity{}, fmt.Errorf("%w: unknown platform %q for %s", ErrInvalidExpectation, e.Platform, e.Path)
	}
}

// NewExpectation builds an expectation from records read through an open
// session.
func NewExpectation(path string, attrs *fileident.Attributes, id fileident.Identity) Expectation {
	e := Expectation{Path: path}
	if attrs != nil {
		e.Device = attrs.Device
		e.Inode = attrs.Inode
		e.UID = attrs.UID
		e.GID = attrs.GID
	}
	switch id.Platform {
	case fileident.PlatformUnix:
		e.Platform = "unix"
		e.Device = id.Device
		e.Inode = id.Inode
	case fileident.PlatformWindows:
		e.Platform = "windows"
		e.VolumeSerial = id.VolumeSerial
		e.FileID = hex.EncodeToString(id.FileID[:])
	case fileident.PlatformUnknown:
		// no identity pin
	}
	return e
}

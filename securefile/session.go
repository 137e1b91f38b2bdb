// Package securefile provides traversal-safe file access: paths are
// canonicalized, every directory component is validated against
// attacker-controllable ownership and permissions, and callers can pin a
// file to previously recorded attributes and identity so a swap between
// validation and open is detected. All subsequent I/O is funneled through
// the returned session, which tracks a closed set of outcome codes.
//
// The package never logs or prints; callers decide how failures surface.
package securefile

import (
	"os"
	"path/filepath"

	"github.com/isseis/go-secure-file/internal/common"
	"github.com/isseis/go-secure-file/internal/fileident"
	"github.com/isseis/go-secure-file/internal/pathresolver"
	"github.com/isseis/go-secure-file/internal/pathsecurity"
)

// DefaultCreatePerm is the permission applied to files created by Open.
const DefaultCreatePerm os.FileMode = 0o600

// File is a secure file session. It owns the open handle, the canonical
// path, the cached attribute and identity records, and the outcome code of
// the most recent operation. A File is not safe for concurrent use; callers
// sharing one across goroutines must serialize access externally.
type File struct {
	handle      *os.File
	fullPath    string
	fileName    string
	fd          int
	size        int64
	attrs       *fileident.Attributes
	identity    fileident.Identity
	valid       bool
	code        Code
	err         error
	closeFailed bool
	freed       bool

	deps deps
}

type deps struct {
	fs       common.FileSystem
	resolver pathresolver.Resolver
	checker  pathsecurity.Checker
	reader   fileident.Reader
	perm     os.FileMode
}

type openConfig struct {
	deps
	allowedExtensions []ExtensionRule
	expectedAttrs     *fileident.Attributes
	expectedIdentity  *fileident.Identity
}

func defaultOpenConfig() openConfig {
	return openConfig{
		deps: deps{
			fs:       common.NewDefaultFileSystem(),
			resolver: pathresolver.NewOSResolver(),
			checker:  pathsecurity.NewOSChecker(),
			reader:   fileident.NewOSReader(),
			perm:     DefaultCreatePerm,
		},
	}
}

// OpenOption configures an Open call.
type OpenOption func(*openConfig)

// WithAllowedExtensions restricts which filenames may be opened for
// reading. The list is consulted in order; the first matching rule wins.
func WithAllowedExtensions(rules ...ExtensionRule) OpenOption {
	return func(cfg *openConfig) { cfg.allowedExtensions = rules }
}

// WithExpectedAttributes pins the open to a previously recorded attribute
// record; a mismatch before or after the open fails the call.
func WithExpectedAttributes(attrs *fileident.Attributes) OpenOption {
	return func(cfg *openConfig) { cfg.expectedAttrs = attrs }
}

// WithExpectedIdentity pins the open to a previously recorded identity
// token; a post-open mismatch closes the handle and fails the call.
func WithExpectedIdentity(id fileident.Identity) OpenOption {
	return func(cfg *openConfig) { cfg.expectedIdentity = &id }
}

// WithCreatePerm sets the permission bits for files created by this open.
func WithCreatePerm(perm os.FileMode) OpenOption {
	return func(cfg *openConfig) { cfg.perm = perm }
}

// WithFileSystem injects a FileSystem implementation, for testing.
func WithFileSystem(fsys common.FileSystem) OpenOption {
	return func(cfg *openConfig) { cfg.fs = fsys }
}

// WithResolver injects a path resolver implementation, for testing.
func WithResolver(r pathresolver.Resolver) OpenOption {
	return func(cfg *openConfig) { cfg.resolver = r }
}

// WithDirectoryChecker injects a directory security checker.
func WithDirectoryChecker(c pathsecurity.Checker) OpenOption {
	return func(cfg *openConfig) { cfg.checker = c }
}

// WithAttributeReader injects an attribute/identity reader, for testing.
func WithAttributeReader(r fileident.Reader) OpenOption {
	return func(cfg *openConfig) { cfg.reader = r }
}

// Open validates name and opens it according to the fopen-style mode
// string. It always returns a non-nil session; the caller must inspect
// Valid or Err for the outcome. The validation order is deliberate:
// mode parse, canonicalization, existence policy, extension allow-list,
// pre-open attribute compare by name, directory security walk, open,
// post-open identity and attribute compare through the handle. The
// post-open re-check narrows the window in which the file could be swapped
// between validation and use.
func Open(name, mode string, opts ...OpenOption) *File {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &File{fd: -1, deps: cfg.deps}

	m, err := parseMode(mode)
	if err != nil {
		return f.failOpen(CodeInvalidMode, name, err)
	}

	dirPart, basePart := pathresolver.SplitPath(name)
	if basePart == "" {
		return f.failOpen(CodeInvalidPath, name, nil)
	}
	if dirPart == "" {
		// Bare filename: the process working directory is the base. This
		// is inherently racy with concurrent chdir elsewhere in the
		// process; accepted platform limitation.
		cwd, err := cfg.fs.Getwd()
		if err != nil {
			return f.failOpen(CodeInvalidPath, name, err)
		}
		dirPart = cwd
	}

	canonDir, err := cfg.resolver.Canonicalize(dirPart)
	if err != nil {
		return f.failOpen(CodeInvalidPath, name, err)
	}

	fullPath := filepath.Join(canonDir, basePart)
	if len(fullPath) > pathresolver.MaxPathLength {
		return f.failOpen(CodeInvalidPath, name, pathresolver.ErrPathTooLong)
	}
	f.fullPath = fullPath
	f.fileName = basePart

	exists, err := cfg.fs.FileExists(fullPath)
	if err != nil {
		return f.failOpen(CodeFailure, fullPath, err)
	}

	creating := m.creating()
	switch {
	case !creating && !exists:
		return f.failOpen(CodeInvalidFile, fullPath, nil)
	case creating && m.exclusive && exists:
		return f.failOpen(CodeFileExists, fullPath, nil)
	}

	if !creating {
		// Extension check runs before the directory walk: a clearly wrong
		// file type never triggers the more expensive security check.
		if !matchesAllowedExtension(basePart, cfg.allowedExtensions) {
			return f.failOpen(CodeInvalidExtension, fullPath, nil)
		}

		if cfg.expectedAttrs != nil {
			preAttrs, err := cfg.reader.AttributesByName(fullPath)
			if err != nil {
				return f.failOpen(CodeInvalidAttributes, fullPath, err)
			}
			match := fileident.AttributesMatch(cfg.expectedAttrs, preAttrs)
			preAttrs.Zero()
			if !match {
				return f.failOpen(CodeInvalidAttributes, fullPath, nil)
			}
		}
	}

	// The security walk validates the directory, never the file itself;
	// this is the primary traversal mitigation and must precede the open.
	if err := cfg.checker.CheckDirectory(canonDir); err != nil {
		return f.failOpen(CodeInsecurePath, canonDir, err)
	}

	flags := m.flags()
	if m.exclusive {
		flags |= os.O_EXCL
	}
	handle, err := cfg.fs.OpenFile(fullPath, flags, cfg.perm)
	if err != nil {
		return f.failOpen(mapOpenError(err), fullPath, err)
	}

	info, err := handle.Stat()
	if err != nil {
		_ = handle.Close()
		return f.failOpen(CodeFailure, fullPath, err)
	}
	if !info.Mode().IsRegular() {
		_ = handle.Close()
		return f.failOpen(CodeInvalidFile, fullPath, nil)
	}

	id, err := cfg.reader.IdentityByFile(handle)
	if err != nil {
		_ = handle.Close()
		return f.failOpen(CodeFailure, fullPath, err)
	}
	if cfg.expectedIdentity != nil && !fileident.IdentityMatch(*cfg.expectedIdentity, id) {
		_ = handle.Close()
		return f.failOpen(CodeInvalidIdentity, fullPath, nil)
	}

	postAttrs, err := cfg.reader.AttributesByFile(handle)
	if err != nil {
		_ = handle.Close()
		return f.failOpen(CodeFailure, fullPath, err)
	}
	if cfg.expectedAttrs != nil && !fileident.AttributesMatch(cfg.expectedAttrs, postAttrs) {
		_ = handle.Close()
		postAttrs.Zero()
		return f.failOpen(CodeInvalidAttributes, fullPath, nil)
	}

	f.handle = handle
	f.fd = int(handle.Fd())
	f.attrs = postAttrs
	f.identity = id
	f.size = postAttrs.Size
	f.valid = true
	f.code = CodeSuccess
	return f
}

func mapOpenError(err error) Code {
	switch {
	case os.IsNotExist(err):
		return CodeInvalidFile
	case os.IsExist(err):
		return CodeFileExists
	case os.IsPermission(err):
		return CodeInsecurePath
	default:
		return CodeFailure
	}
}

func (f *File) failOpen(code Code, path string, cause error) *File {
	f.code = code
	f.err = &Error{Code: code, Op: "open", Path: path, Err: cause}
	return f
}

// Valid reports whether the session holds an open, validated handle.
func (f *File) Valid() bool {
	return f != nil && f.valid && f.handle != nil
}

// ErrorCode returns the outcome code of the most recent operation.
func (f *File) ErrorCode() Code {
	if f == nil {
		return CodeInvalidHandle
	}
	return f.code
}

// Err returns the error recorded by the most recent failing operation, or
// nil if it succeeded.
func (f *File) Err() error {
	if f == nil {
		return &Error{Code: CodeInvalidHandle, Op: "session"}
	}
	return f.err
}

// Path returns the canonical full path of the file.
func (f *File) Path() string { return f.fullPath }

// Name returns the filename portion of the canonical path.
func (f *File) Name() string { return f.fileName }

// Fd returns the platform file descriptor, or -1 when no handle is open.
func (f *File) Fd() int { return f.fd }

// Size returns the file size cached when the handle was opened.
func (f *File) Size() int64 { return f.size }

// Attributes returns the attribute record read through the open handle.
// The record is owned by the session and scrubbed on Free.
func (f *File) Attributes() *fileident.Attributes { return f.attrs }

// Identity returns the unique-identity token read through the open handle.
func (f *File) Identity() fileident.Identity { return f.identity }

// Free releases the session: the handle is closed if still open and the
// sensitive parts of the attribute record are zeroed before the references
// are dropped. Free is idempotent; a freed session rejects all further
// operations with CodeInvalidHandle.
func (f *File) Free() {
	if f == nil || f.freed {
		return
	}
	if f.handle != nil {
		_ = f.handle.Close()
		f.handle = nil
	}
	f.attrs.Zero()
	f.attrs = nil
	f.identity = fileident.Identity{}
	f.fullPath = ""
	f.fileName = ""
	f.fd = -1
	f.size = 0
	f.valid = false
	f.freed = true
	f.code = CodeInvalidHandle
	f.err = nil
}

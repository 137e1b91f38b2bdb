package securefile

import (
	"errors"
	"fmt"
)

// Code is the closed set of outcomes a secure file operation can produce.
// Every public operation stores its outcome code in the session and also
// reports it through the returned error.
type Code int

// Operation outcome codes
const (
	// CodeSuccess indicates the operation completed.
	CodeSuccess Code = iota
	// CodeInvalidFile indicates the file does not exist or no handle is open.
	CodeInvalidFile
	// CodeInvalidPath indicates the path could not be canonicalized.
	CodeInvalidPath
	// CodeFileExists indicates an exclusive create found an existing file.
	CodeFileExists
	// CodeInvalidExtension indicates the filename failed the allow-list.
	CodeInvalidExtension
	// CodeInvalidAttributes indicates the file's attributes do not match
	// the caller's expectation.
	CodeInvalidAttributes
	// CodeInvalidIdentity indicates the open file's unique identity does
	// not match the caller's expectation.
	CodeInvalidIdentity
	// CodeInsecurePath indicates the directory security check failed.
	CodeInsecurePath
	// CodeInvalidMode indicates a malformed or contradictory mode string.
	CodeInvalidMode
	// CodeInvalidHandle indicates the session itself is nil or freed.
	CodeInvalidHandle
	// CodeCloseFailure indicates close failed; sticky once set.
	CodeCloseFailure
	// CodeBufferTooSmall indicates the caller's buffer cannot hold the request.
	CodeBufferTooSmall
	// CodeInvalidParameter indicates a nil buffer or negative size.
	CodeInvalidParameter
	// CodeReadWriteError indicates an I/O failure that is not end-of-file.
	CodeReadWriteError
	// CodeEndOfFile indicates a read stopped at end of file.
	CodeEndOfFile
	// CodeDiskFull indicates a short write caused by an out-of-space condition.
	CodeDiskFull
	// CodeSeekFailure indicates seek or tell failed.
	CodeSeekFailure
	// CodeFlushFailure indicates flush failed.
	CodeFlushFailure
	// CodeFailure is the catch-all for unmapped underlying errors.
	CodeFailure
)

// Sentinel errors, one per failure code, so callers can use errors.Is
// against the outcome of any operation.
var (
	ErrInvalidFile       = errors.New("invalid file")
	ErrInvalidPath       = errors.New("invalid path")
	ErrFileExists        = errors.New("file already exists")
	ErrInvalidExtension  = errors.New("file extension not allowed")
	ErrInvalidAttributes = errors.New("file attributes do not match")
	ErrInvalidIdentity   = errors.New("file unique identity does not match")
	ErrInsecurePath      = errors.New("insecure path")
	ErrInvalidMode       = errors.New("invalid open mode")
	ErrInvalidHandle     = errors.New("invalid secure file handle")
	ErrCloseFailure      = errors.New("close failed")
	ErrBufferTooSmall    = errors.New("buffer too small")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrReadWrite         = errors.New("read/write error")
	ErrEndOfFile         = errors.New("end of file reached")
	ErrDiskFull          = errors.New("disk full")
	ErrSeekFailure       = errors.New("seek failed")
	ErrFlushFailure      = errors.New("flush failed")
	ErrFailure           = errors.New("secure file operation failed")

	// ErrFileTooLarge is returned by ReadFile when the file exceeds
	// MaxReadSize. It is a helper-level error, not a session outcome code.
	ErrFileTooLarge = errors.New("file too large")
)

var codeSentinels = map[Code]error{
	CodeInvalidFile:       ErrInvalidFile,
	CodeInvalidPath:       ErrInvalidPath,
	CodeFileExists:        ErrFileExists,
	CodeInvalidExtension:  ErrInvalidExtension,
	CodeInvalidAttributes: ErrInvalidAttributes,
	CodeInvalidIdentity:   ErrInvalidIdentity,
	CodeInsecurePath:      ErrInsecurePath,
	CodeInvalidMode:       ErrInvalidMode,
	CodeInvalidHandle:     ErrInvalidHandle,
	CodeCloseFailure:      ErrCloseFailure,
	CodeBufferTooSmall:    ErrBufferTooSmall,
	CodeInvalidParameter:  ErrInvalidParameter,
	CodeReadWriteError:    ErrReadWrite,
	CodeEndOfFile:         ErrEndOfFile,
	CodeDiskFull:          ErrDiskFull,
	CodeSeekFailure:       ErrSeekFailure,
	CodeFlushFailure:      ErrFlushFailure,
	CodeFailure:           ErrFailure,
}

var codeNames = map[Code]string{
	CodeSuccess:           "success",
	CodeInvalidFile:       "invalid-file",
	CodeInvalidPath:       "invalid-path",
	CodeFileExists:        "already-exists",
	CodeInvalidExtension:  "invalid-extension",
	CodeInvalidAttributes: "invalid-attributes",
	CodeInvalidIdentity:   "invalid-unique-id",
	CodeInsecurePath:      "insecure-path",
	CodeInvalidMode:       "invalid-mode",
	CodeInvalidHandle:     "invalid-secure-file-handle",
	CodeCloseFailure:      "close-failure",
	CodeBufferTooSmall:    "buffer-too-small",
	CodeInvalidParameter:  "invalid-parameter",
	CodeReadWriteError:    "read-write-error",
	CodeEndOfFile:         "end-of-file",
	CodeDiskFull:          "disk-full",
	CodeSeekFailure:       "seek-failure",
	CodeFlushFailure:      "flush-failure",
	CodeFailure:           "generic-failure",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Sentinel returns the sentinel error for a failure code, or nil for
// CodeSuccess and unknown codes.
func (c Code) Sentinel() error {
	return codeSentinels[c]
}

// Error is the error type produced by every failing operation. It carries
// the outcome code, the operation name, the canonical path (when known),
// and the underlying cause.
type Error struct {
	Code Code
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Code.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the code's sentinel and the underlying cause so
// errors.Is works against either.
func (e *Error) Unwrap() []error {
	var chain []error
	if sentinel := e.Code.Sentinel(); sentinel != nil {
		chain = append(chain, sentinel)
	}
	if e.Err != nil {
		chain = append(chain, e.Err)
	}
	return chain
}

// CodeOf extracts the outcome code from an error produced by this package.
// A nil error reports CodeSuccess; a foreign error reports CodeFailure.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeFailure
}

package securefile

import (
	"errors"
	"io"
	"os"
)

// operr records the outcome of an operation in the session and builds the
// returned error. A CodeSuccess outcome clears the stored error.
func (f *File) operr(code Code, op string, cause error) error {
	f.code = code
	if code == CodeSuccess {
		f.err = nil
		return nil
	}
	f.err = &Error{Code: code, Op: op, Path: f.fullPath, Err: cause}
	return f.err
}

// precheck enforces the per-operation preconditions shared by all I/O
// wrappers: a failed close permanently poisons the session, and every
// operation needs an open handle.
func (f *File) precheck(op string) error {
	if f == nil {
		return &Error{Code: CodeInvalidHandle, Op: op}
	}
	if f.freed {
		return f.operr(CodeInvalidHandle, op, nil)
	}
	if f.closeFailed {
		return f.operr(CodeCloseFailure, op, nil)
	}
	if f.handle == nil {
		return f.operr(CodeInvalidFile, op, nil)
	}
	return nil
}

// ReadElements reads count elements of elemSize bytes each into buf. It
// returns the number of bytes read. A zero-sized request succeeds without
// touching the file. A read that stops early reports CodeEndOfFile when the
// stream ended and CodeReadWriteError otherwise.
func (f *File) ReadElements(buf []byte, elemSize, count int) (int, error) {
	if err := f.precheck("read"); err != nil {
		return 0, err
	}
	want, err := f.checkBuffer("read", buf, elemSize, count)
	if err != nil || want == 0 {
		return 0, err
	}

	n, rerr := io.ReadFull(f.handle, buf[:want])
	switch {
	case n == want:
		return n, f.operr(CodeSuccess, "read", nil)
	case n == 0:
		return 0, f.operr(CodeReadWriteError, "read", rerr)
	case errors.Is(rerr, io.ErrUnexpectedEOF) || errors.Is(rerr, io.EOF):
		return n, f.operr(CodeEndOfFile, "read", rerr)
	default:
		return n, f.operr(CodeReadWriteError, "read", rerr)
	}
}

// Read reads len(p) bytes into p. It is shorthand for ReadElements with an
// element size of one; note that unlike io.Reader, a read that ends at the
// end of the file reports CodeEndOfFile alongside the byte count.
func (f *File) Read(p []byte) (int, error) {
	return f.ReadElements(p, 1, len(p))
}

// WriteElements writes count elements of elemSize bytes each from buf. A
// short write caused by an out-of-space condition reports CodeDiskFull;
// any other short write or error reports CodeReadWriteError.
func (f *File) WriteElements(buf []byte, elemSize, count int) (int, error) {
	if err := f.precheck("write"); err != nil {
		return 0, err
	}
	want, err := f.checkBuffer("write", buf, elemSize, count)
	if err != nil || want == 0 {
		return 0, err
	}

	n, werr := f.handle.Write(buf[:want])
	if werr != nil || n < want {
		if isDiskFull(werr) {
			return n, f.operr(CodeDiskFull, "write", werr)
		}
		return n, f.operr(CodeReadWriteError, "write", werr)
	}
	return n, f.operr(CodeSuccess, "write", nil)
}

// Write writes len(p) bytes from p.
func (f *File) Write(p []byte) (int, error) {
	return f.WriteElements(p, 1, len(p))
}

// checkBuffer validates the buffer/size parameters shared by read and
// write. The checks run before any I/O so a bad call never touches the
// underlying handle.
func (f *File) checkBuffer(op string, buf []byte, elemSize, count int) (int, error) {
	if elemSize < 0 || count < 0 {
		return 0, f.operr(CodeInvalidParameter, op, nil)
	}
	want := elemSize * count
	if elemSize != 0 && want/elemSize != count {
		return 0, f.operr(CodeInvalidParameter, op, nil) // overflow
	}
	if buf == nil && want > 0 {
		return 0, f.operr(CodeInvalidParameter, op, nil)
	}
	if len(buf) < want {
		return 0, f.operr(CodeBufferTooSmall, op, nil)
	}
	if want == 0 {
		return 0, f.operr(CodeSuccess, op, nil)
	}
	return want, nil
}

// Seek repositions the file offset. Whence is one of io.SeekStart,
// io.SeekCurrent, io.SeekEnd.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.precheck("seek"); err != nil {
		return 0, err
	}
	pos, err := f.handle.Seek(offset, whence)
	if err != nil {
		return pos, f.operr(CodeSeekFailure, "seek", err)
	}
	return pos, f.operr(CodeSuccess, "seek", nil)
}

// Rewind seeks to the start of the file and clears any recorded end-of-file
// state, so a session that previously hit CodeEndOfFile can read again.
func (f *File) Rewind() error {
	_, err := f.Seek(0, io.SeekStart)
	return err
}

// Tell returns the current offset. On failure the raw (possibly negative)
// value is still returned alongside the CodeSeekFailure outcome.
func (f *File) Tell() (int64, error) {
	if err := f.precheck("tell"); err != nil {
		return 0, err
	}
	pos, err := f.handle.Seek(0, io.SeekCurrent)
	if err != nil || pos < 0 {
		return pos, f.operr(CodeSeekFailure, "tell", err)
	}
	return pos, f.operr(CodeSuccess, "tell", nil)
}

// Flush forces buffered writes to stable storage.
func (f *File) Flush() error {
	if err := f.precheck("flush"); err != nil {
		return err
	}
	if err := f.handle.Sync(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return f.operr(CodeFlushFailure, "flush", err)
		}
		return f.operr(CodeFailure, "flush", err)
	}
	return f.operr(CodeSuccess, "flush", nil)
}

// Close releases the handle. Closing a session with no open handle is a
// success, so Close is idempotent; a close that fails is permanently
// sticky and blocks every further operation on the session.
func (f *File) Close() error {
	if f == nil {
		return &Error{Code: CodeInvalidHandle, Op: "close"}
	}
	if f.freed {
		return f.operr(CodeInvalidHandle, "close", nil)
	}
	if f.closeFailed {
		return f.operr(CodeCloseFailure, "close", nil)
	}
	if f.handle == nil {
		return f.operr(CodeSuccess, "close", nil)
	}
	if err := f.handle.Close(); err != nil {
		f.closeFailed = true
		return f.operr(CodeCloseFailure, "close", err)
	}
	f.handle = nil
	f.fd = -1
	f.valid = false
	return f.operr(CodeSuccess, "close", nil)
}

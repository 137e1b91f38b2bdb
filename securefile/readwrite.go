package securefile

import "fmt"

// MaxReadSize is the maximum file size ReadFile will load into memory
// (128 MB), preventing memory exhaustion from oversized inputs.
const MaxReadSize = 128 * 1024 * 1024

// ReadFile opens name read-only through the full validation chain and
// returns its contents. Files larger than MaxReadSize are rejected with
// ErrFileTooLarge.
func ReadFile(name string, opts ...OpenOption) ([]byte, error) {
	f := Open(name, "rb", opts...)
	defer f.Free()
	if !f.Valid() {
		return nil, f.Err()
	}

	if f.Size() > MaxReadSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, f.Path(), f.Size())
	}

	buf := make([]byte, f.Size())
	n, err := f.ReadElements(buf, 1, len(buf))
	if err != nil && f.ErrorCode() != CodeEndOfFile {
		return nil, err
	}
	return buf[:n], nil
}

// WriteFile creates name with exclusive-create semantics, writes data, and
// flushes it to stable storage. An existing file fails with the
// already-exists outcome rather than being overwritten.
func WriteFile(name string, data []byte, opts ...OpenOption) error {
	f := Open(name, "wbx", opts...)
	defer f.Free()
	if !f.Valid() {
		return f.Err()
	}

	if _, err := f.WriteElements(data, 1, len(data)); err != nil {
		return err
	}
	if err := f.Flush(); err != nil {
		return err
	}
	return f.Close()
}

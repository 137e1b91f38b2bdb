package securefile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeString(t *testing.T) {
	assert.Equal(t, "success", CodeSuccess.String())
	assert.Equal(t, "insecure-path", CodeInsecurePath.String())
	assert.Equal(t, "already-exists", CodeFileExists.String())
	assert.Equal(t, "code(999)", Code(999).String())
}

func TestCodeSentinel(t *testing.T) {
	assert.Nil(t, CodeSuccess.Sentinel())
	assert.ErrorIs(t, CodeInvalidMode.Sentinel(), ErrInvalidMode)

	// Every failure code has a sentinel and a name.
	for code := CodeInvalidFile; code <= CodeFailure; code++ {
		assert.NotNil(t, code.Sentinel(), "code %d should have a sentinel", code)
		assert.NotEmpty(t, codeNames[code], "code %d should have a name", code)
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := &Error{Code: CodeInsecurePath, Op: "open", Path: "/etc/app/data.bin", Err: cause}

	assert.ErrorIs(t, err, ErrInsecurePath, "errors.Is should find the code sentinel")
	assert.ErrorIs(t, err, cause, "errors.Is should find the underlying cause")
	assert.Contains(t, err.Error(), "insecure-path")
	assert.Contains(t, err.Error(), "/etc/app/data.bin")
}

func TestErrorWithoutCause(t *testing.T) {
	err := &Error{Code: CodeInvalidExtension, Op: "open", Path: "data.txt"}
	assert.ErrorIs(t, err, ErrInvalidExtension)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeSuccess, CodeOf(nil))
	assert.Equal(t, CodeFailure, CodeOf(errors.New("foreign error")))

	var err error = &Error{Code: CodeSeekFailure, Op: "seek"}
	assert.Equal(t, CodeSeekFailure, CodeOf(err))

	wrapped := fmt.Errorf("outer: %w", err)
	require.Equal(t, CodeSeekFailure, CodeOf(wrapped), "CodeOf should see through wrapping")
}

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "file_not_found",
			code:    errors.ErrFileNotFound,
			message: "structure file not found",
			wantStr: "[FILE_NOT_FOUND] structure file not found",
		},
		{
			name:    "invalid_input",
			code:    errors.ErrInvalidInput,
			message: "sequence lengths differ",
			wantStr: "[INVALID_INPUT] sequence lengths differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrParse, "line %d: expected %d values", 7, 3)
	assert.Equal(t, "line 7: expected 3 values", err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("disk full")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrFileWrite, "cannot write report")
		require.NotNil(t, err)
		assert.Equal(t, errors.ErrFileWrite, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[FILE_WRITE] cannot write report: disk full", err.Error())
		assert.True(t, stderrors.Is(err, baseErr))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrDataQuality, "bad determinant")
	wrapped := fmt.Errorf("classify: %w", err)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrDataQuality))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrParse))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrParse))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrConfigValid, errors.GetErrorCode(errors.New(errors.ErrConfigValid, "x")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := errors.New(errors.ErrFileWrite, "first")
	b := errors.New(errors.ErrFileWrite, "second")
	c := errors.New(errors.ErrParse, "third")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrParse, "bad number").
		WithDetail("line", 4).
		WithDetail("path", "POSCAR")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, 4, details["line"])
	assert.Equal(t, "POSCAR", details["path"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

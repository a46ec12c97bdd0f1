package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("metadata",
		FieldError{Field: "title", Message: "this field cannot be blank"},
		FieldError{Field: "modules", Message: "must be a positive integer"},
	)

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, err.Has("title"))
	assert.False(t, err.Has("author"))
	assert.Contains(t, err.Error(), "title: this field cannot be blank")
	assert.False(t, IsFatal(err))
}

func TestFilesystemAndWriteErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "filesystem", err: NewFilesystemError("/x/AUTH", fs.ErrPermission), sentinel: ErrFilesystem},
		{name: "write", err: NewWriteError("/x/index.html", fs.ErrNotExist), sentinel: ErrWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("generation failed: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.True(t, IsFatal(wrapped))
			assert.False(t, errors.Is(wrapped, ErrValidationFailed))
		})
	}

	assert.True(t, errors.Is(NewFilesystemError("/x", fs.ErrPermission), fs.ErrPermission))
}

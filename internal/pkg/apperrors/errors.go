package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Input errors
	ErrValidationFailed = errors.New("validation failed")

	// Disk errors
	ErrFilesystem = errors.New("filesystem error")
	ErrWrite      = errors.New("write error")

	// Wizard errors
	ErrAborted        = errors.New("wizard aborted")
	ErrSessionClosed  = errors.New("wizard session already completed")
	ErrStageOutOfTurn = errors.New("wizard stage out of turn")
)

// Catalog errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course already exists")
)

// FieldError describes a problem with a single input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when user input for a wizard stage is rejected.
// It is always recoverable: the caller re-prompts and no state changes.
type ValidationError struct {
	Stage  string
	Fields []FieldError
}

// NewValidationError creates a ValidationError for the given stage
func NewValidationError(stage string, fields ...FieldError) *ValidationError {
	return &ValidationError{Stage: stage, Fields: fields}
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Stage, ErrValidationFailed)
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Stage, ErrValidationFailed, strings.Join(msgs, "; "))
}

// Unwrap implements errors.Unwrap interface
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Has reports whether the error carries a message for field.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FilesystemError is returned when a directory of the course layout cannot be created.
type FilesystemError struct {
	Path string
	Err  error
}

func NewFilesystemError(path string, err error) *FilesystemError {
	return &FilesystemError{Path: path, Err: err}
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s: create %s: %v", ErrFilesystem, e.Path, e.Err)
}

// Is matches ErrFilesystem so callers can use errors.Is with the sentinel.
func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// WriteError is returned when a generated artifact cannot be written.
// Artifacts written before the failure stay on disk.
type WriteError struct {
	Path string
	Err  error
}

func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrWrite, e.Path, e.Err)
}

// Is matches ErrWrite so callers can use errors.Is with the sentinel.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// IsFatal reports whether err must terminate the current generation pass.
func IsFatal(err error) bool {
	return Is(err, ErrFilesystem, ErrWrite)
}

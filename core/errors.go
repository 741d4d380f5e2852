package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// StorageError labels an opaque persistence failure. The underlying cause is
// wrapped; callers only get to know that storage failed, not their input.
type StorageError struct {
	Err error
}

func NewStorageError(err error, msg string) error {
	return &StorageError{Err: errors.Wrap(err, msg)}
}

func (err StorageError) Error() string {
	if err.Err == nil {
		return "storage failure"
	}
	return err.Err.Error()
}

func IsStorageError(err error) bool {
	_, ok := errors.Cause(err).(*StorageError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError indicates malformed or missing input.
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

// ConflictError indicates a uniqueness violation.
type ConflictError struct {
	Err error
}

func NewConflictError(err error) error { return &ConflictError{err} }

func (err ConflictError) Error() string { return err.Err.Error() }

// NotFoundError indicates that a referenced entity is absent.
type NotFoundError struct {
	Err error
}

func NewNotFoundError(err error) error { return &NotFoundError{err} }

func (err NotFoundError) Error() string { return err.Err.Error() }

// AuthenticationError indicates bad credentials.
type AuthenticationError struct {
	Err error
}

func NewAuthenticationError(err error) error { return &AuthenticationError{err} }

func (err AuthenticationError) Error() string { return err.Err.Error() }

// PermissionError indicates an authenticated but forbidden request.
type PermissionError struct {
	Err error
}

func NewPermissionError(err error) error { return &PermissionError{err} }

func (err PermissionError) Error() string { return err.Err.Error() }

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

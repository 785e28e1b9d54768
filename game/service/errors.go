package service

import (
	"errors"
	"net/http"
)

// Code classifies service errors so transports can map them without string
// matching.
type Code string

const (
	// CodeNotFound covers unknown session keys and unknown themes.
	CodeNotFound Code = "not_found"

	// CodeInvalidInput covers malformed or rejected client input.
	CodeInvalidInput Code = "invalid_input"

	// CodeInternal covers storage and other unexpected failures.
	CodeInternal Code = "internal"
)

// HTTPStatus returns the HTTP status a transport should answer with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the service error type with a machine-readable code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewError creates a service error with a code and message.
func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError creates a service error that wraps an underlying cause.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the error code, defaulting to CodeInternal for errors that
// did not come from this package.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

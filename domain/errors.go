package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches sentinel errors by code and message so that wrapped copies of a
// sentinel (see WrapError) still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrProjectNotFound    = NewError(ErrCodeNotFound, "project not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "task not found")
	ErrInvalidDateFormat  = NewError(ErrCodeInvalid, "invalid date format")
	ErrInvalidStatus      = NewError(ErrCodeInvalid, "invalid task status")
	ErrInvalidProjectName = NewError(ErrCodeInvalid, "project name must have between 3 and 50 printable characters")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
	ErrStoreUnavailable   = NewError(ErrCodeUnavailable, "store unavailable")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
)

// Unavailable wraps an infrastructure failure as ErrStoreUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return WrapError(ErrCodeUnavailable, ErrStoreUnavailable.Message, err)
}

// Invalid builds a validation error carrying a field-specific message.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

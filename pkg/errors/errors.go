// Package errors provides structured error types for cxlayout.
//
// Error codes are machine-readable and map onto the failure classes the
// pipeline distinguishes:
//   - INVALID_*: input validation failures (bad UUID, bad --center pair)
//   - UNSUPPORTED_LAYOUT: the requested layout has no registered provider
//   - CONFIG_*: profile configuration failures
//   - NETWORK_ERROR: transport-level failures talking to the NDEx server
//
// Usage:
//
//	err := errors.New(errors.ErrCodeUnsupportedLayout, "no provider for layout %q", name)
//	if errors.Is(err, errors.ErrCodeUnsupportedLayout) {
//	    // handle
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidUUID   Code = "INVALID_UUID"
	ErrCodeInvalidCenter Code = "INVALID_CENTER"
	ErrCodeInvalidCX     Code = "INVALID_CX"

	// Layout dispatch errors
	ErrCodeUnsupportedLayout Code = "UNSUPPORTED_LAYOUT"

	// Configuration errors
	ErrCodeConfigNotFound Code = "CONFIG_NOT_FOUND"
	ErrCodeConfigProfile  Code = "CONFIG_PROFILE"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

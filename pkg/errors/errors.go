// Package errors provides coded, structured errors for spinflip.
//
// Codes are stable and meant to be asserted in tests and mapped to
// user-facing messages by the CLI.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"

	// Input data errors
	ErrParse       ErrorCode = "PARSE"
	ErrDataQuality ErrorCode = "DATA_QUALITY"

	// External symmetry source errors
	ErrSourceExecute ErrorCode = "SOURCE_EXECUTE"
)

// SpinflipError represents a structured error with code and details
type SpinflipError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SpinflipError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SpinflipError) Unwrap() error {
	return e.Wrapped
}

// Is matches any SpinflipError carrying the same code
func (e *SpinflipError) Is(target error) bool {
	var targetErr *SpinflipError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SpinflipError with the given code and message
func New(code ErrorCode, message string) *SpinflipError {
	return &SpinflipError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SpinflipError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SpinflipError {
	return &SpinflipError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SpinflipError.
// It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *SpinflipError {
	if err == nil {
		return nil
	}
	return &SpinflipError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SpinflipError {
	if err == nil {
		return nil
	}
	return &SpinflipError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SpinflipError) WithDetail(key string, value interface{}) *SpinflipError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var spinErr *SpinflipError
	if errors.As(err, &spinErr) {
		return spinErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SpinflipError
func GetErrorCode(err error) ErrorCode {
	var spinErr *SpinflipError
	if errors.As(err, &spinErr) {
		return spinErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SpinflipError
func GetErrorDetails(err error) map[string]interface{} {
	var spinErr *SpinflipError
	if errors.As(err, &spinErr) {
		return spinErr.Details
	}
	return nil
}

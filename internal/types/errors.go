package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Rampart framework errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Retrieval error codes
const (
	RETRIEVAL_BACKEND_FAILED ErrorCode = "RETRIEVAL_BACKEND_FAILED"
	RETRIEVAL_TIMEOUT        ErrorCode = "RETRIEVAL_TIMEOUT"
)

// Stream error codes
const (
	STREAM_TERMINAL ErrorCode = "STREAM_TERMINAL"
	STREAM_CANCELED ErrorCode = "STREAM_CANCELED"
)

// RampartError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints for error
// handling logic.
type RampartError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *RampartError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *RampartError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a RampartError with the same Code.
func (e *RampartError) Is(target error) bool {
	var rErr *RampartError
	if errors.As(target, &rErr) {
		return e.Code == rErr.Code
	}
	return false
}

// NewError creates a new non-retryable RampartError with the given code and message.
func NewError(code ErrorCode, message string) *RampartError {
	return &RampartError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable RampartError with the given code
// and message. Use this for transient errors that may succeed on retry
// (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *RampartError {
	return &RampartError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable RampartError that wraps an existing
// error. The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *RampartError {
	return &RampartError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapRetryableError creates a retryable RampartError that wraps an existing error.
func WrapRetryableError(code ErrorCode, message string, cause error) *RampartError {
	return &RampartError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// CodeOf extracts the ErrorCode from err if it is a RampartError.
// Returns the empty code for nil or foreign errors.
func CodeOf(err error) ErrorCode {
	var rErr *RampartError
	if errors.As(err, &rErr) {
		return rErr.Code
	}
	return ""
}

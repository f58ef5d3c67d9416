package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Neurograph errors.
type ErrorCode string

// Graph store error codes
const (
	NOT_FOUND            ErrorCode = "NOT_FOUND"
	DANGLING_REFERENCE   ErrorCode = "DANGLING_REFERENCE"
	CONSTRAINT_VIOLATION ErrorCode = "CONSTRAINT_VIOLATION"
)

// Pipeline error codes
const (
	MODEL_INVOCATION_FAILED ErrorCode = "MODEL_INVOCATION_FAILED"
	UNRESOLVED              ErrorCode = "UNRESOLVED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// GraphError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type GraphError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *GraphError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a GraphError with the same Code.
func (e *GraphError) Is(target error) bool {
	var graphErr *GraphError
	if errors.As(target, &graphErr) {
		return e.Code == graphErr.Code
	}
	return false
}

// NewError creates a new non-retryable GraphError with the given code and message.
func NewError(code ErrorCode, message string) *GraphError {
	return &GraphError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable GraphError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *GraphError {
	return &GraphError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable GraphError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *GraphError {
	return &GraphError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// IsCode reports whether err is a GraphError carrying the given error code.
func IsCode(err error, code ErrorCode) bool {
	var graphErr *GraphError
	if errors.As(err, &graphErr) {
		return graphErr.Code == code
	}
	return false
}

// IsRetryable reports whether err is a GraphError marked retryable.
func IsRetryable(err error) bool {
	var graphErr *GraphError
	if errors.As(err, &graphErr) {
		return graphErr.Retryable
	}
	return false
}

package axle

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInternal         ErrorCode = "internal"
	CodeCanceled         ErrorCode = "canceled"
	CodeDeadlineExceeded ErrorCode = "deadline_exceeded"
	CodeTypeMismatch     ErrorCode = "type_mismatch"  // Value does not match a TypeArg's type
	CodeStreamFailure    ErrorCode = "stream_failure"  // A source iterator panicked
	CodeHandlerFailure   ErrorCode = "handler_failure" // A stream element handler panicked
	CodeNilCause         ErrorCode = "nil_cause"      // A failure was reported without an error
)

// Error is the error type produced by the runtime itself. Errors delivered
// by delegate operations are passed through unchanged.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// NewError creates a new runtime error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new runtime error with a formatted message.
// A %w verb records the wrapped error as the cause.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: err.Error(),
		cause:   errors.Unwrap(err),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// Code classifies err: runtime errors report their own code, context
// errors map to CodeCanceled and CodeDeadlineExceeded, and anything else is
// CodeInternal. A nil error has no code.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeDeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	return CodeInternal
}

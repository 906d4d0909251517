package kurir

import (
	"errors"
	"fmt"
)

// Error type constants used in ClientError.Type.
const (
	// ErrorTypeInvalidArgument marks errors caused by bad constructor input,
	// such as a nil cancel token executor.
	ErrorTypeInvalidArgument = "InvalidArgument"

	// ErrorTypeValidation marks errors raised by option validation before a
	// dispatch starts. Validation errors are returned synchronously and never
	// enter the interceptor chain.
	ErrorTypeValidation = "Validation"

	// ErrorTypeTransport marks errors produced by the transport while
	// performing network I/O.
	ErrorTypeTransport = "Transport"
)

// ClientError represents a typed error from the client.
type ClientError struct {
	Type    string
	Message string
	Key     string // offending option key, set for validation errors
	Cause   error
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Key != "" {
		msg = fmt.Sprintf("%s (option %s)", msg, e.Key)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// CancelError is the value a dispatch settles with when the operation was
// aborted through a CancelToken. It is deliberately a separate type from
// ClientError so callers can tell "operation was aborted" apart from
// "operation failed".
type CancelError struct {
	Message string
}

// Error implements error interface.
func (e *CancelError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return "kurir: request canceled"
	}
	return "kurir: request canceled: " + e.Message
}

// IsCancel reports whether err marks a cancellation rather than an ordinary
// failure.
func IsCancel(err error) bool {
	var cancelErr *CancelError
	return errors.As(err, &cancelErr)
}

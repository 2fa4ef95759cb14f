// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-sched.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrNotFound reports a cancel against an entry that is no longer
	// scheduled (typically already fired and drained). Callers must treat it
	// as a normal outcome, not a fault.
	ErrNotFound = fmt.Errorf("entry not found")

	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrSchedulerClosed  = fmt.Errorf("scheduler is closed")
	ErrCallbackFailed   = fmt.Errorf("expiry callback failed")
	ErrContextNotEmpty  = fmt.Errorf("per-thread context not empty at teardown")
	ErrThreadOutOfRange = fmt.Errorf("service thread index out of range")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeNotFound
	ErrCodeClosed
	ErrCodeCallbackFailed
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

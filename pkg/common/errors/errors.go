package errors

import (
	"errors"
	"fmt"
	"time"
)

// Common error types used across the gobounce library

var (
	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrStillRunning indicates that a run was requested while another one is pending
	ErrStillRunning = errors.New("timeout is still running: cancel it first")

	// ErrHandlerBusy indicates that a wrapped handler was invoked while an
	// invocation of it is already running
	ErrHandlerBusy = errors.New("handler is already running")
)

// ValidationError describes a configuration field that failed validation.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError wraps the cause of a failed operation with its module and name.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError without extra context.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches additional context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// TimeoutError is raised by a watchdog that expired before its burst resolved.
type TimeoutError struct {
	Op    string
	After time.Duration
}

// NewTimeoutError creates a TimeoutError for the named operation.
func NewTimeoutError(op string, after time.Duration) *TimeoutError {
	return &TimeoutError{Op: op, After: after}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Op, e.After)
}

// Unwrap returns ErrTimeout so callers can match with errors.Is.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap exposes the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsTimeout returns true if the error reports an expired watchdog or deadline
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsPanic returns true if the error wraps a recovered panic
func IsPanic(err error) bool {
	var perr *PanicError
	return errors.As(err, &perr)
}

// IsValidationError returns true if the error is or wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

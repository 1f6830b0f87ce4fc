// Package errors provides structured error handling for listbind.
//
// Contract violations surfaced by the binding adapter are returned as
// *AdapterError values that unwrap to one of the sentinels below, so callers
// can branch with the standard library's errors.Is:
//
//	if _, err := a.ResolveView(pos, v); errors.Is(err, lberrors.ErrOutOfRange) {
//	    // the host asked for a row the source no longer has
//	}
//
// Errors that have no caller to return to (a layout pass driven by a change
// notification, a panicking hook) are sent to the global ErrorHandler via
// Report and ReportPanic.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindOutOfRange indicates a position outside the source's bounds.
	KindOutOfRange
	// KindInvalidState indicates a broken usage contract, such as
	// unregistering more observers than were registered.
	KindInvalidState
	// KindConfig indicates an unreadable or invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindOutOfRange:
		return "out_of_range"
	case KindInvalidState:
		return "invalid_state"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

type sentinel string

func (s sentinel) Error() string { return string(s) }

const (
	// ErrOutOfRange is returned when a position is outside [0, Count()).
	ErrOutOfRange = sentinel("position out of range")
	// ErrInvalidState is returned when the adapter is used out of contract.
	ErrInvalidState = sentinel("invalid adapter state")
)

// AdapterError represents a structured error raised by the binding adapter
// or the components driving it.
type AdapterError struct {
	// Op is the operation that failed (e.g., "adapter.ResolveView").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Position is the requested position for KindOutOfRange errors.
	Position int
	// Count is the source length observed when the error occurred.
	Count int
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AdapterError) Error() string {
	if e.Kind == KindOutOfRange {
		return fmt.Sprintf("%s [%s] position=%d count=%d: %v", e.Op, e.Kind, e.Position, e.Count, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// OutOfRange builds a KindOutOfRange error for op.
func OutOfRange(op string, position, count int) *AdapterError {
	return &AdapterError{
		Op:        op,
		Kind:      KindOutOfRange,
		Err:       ErrOutOfRange,
		Position:  position,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// InvalidState builds a KindInvalidState error for op with a short reason.
// The caller's stack is captured.
func InvalidState(op, reason string) *AdapterError {
	return &AdapterError{
		Op:         op,
		Kind:       KindInvalidState,
		Err:        fmt.Errorf("%s: %w", reason, ErrInvalidState),
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// InvalidConfig builds a KindConfig error for op wrapping err.
func InvalidConfig(op string, err error) *AdapterError {
	return &AdapterError{
		Op:        op,
		Kind:      KindConfig,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "host.Layout").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported through Report and ReportPanic.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *AdapterError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced across component boundaries.
var (
	// ErrNoPendingAction is returned by Approve when the gate is idle.
	ErrNoPendingAction = errors.New("no pending action to approve")

	// ErrAuthRequired indicates the session has no valid credential.
	ErrAuthRequired = errors.New("authentication required")
)

// InputError marks missing or malformed caller input. It maps to a 4xx at
// the HTTP boundary and is never retried.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

// NewInputError builds an InputError from a format string.
func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps a capability that was unreachable or returned a
// protocol-level failure (language model or calendar backend).
type TransportError struct {
	Capability string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s capability failed: %v", e.Capability, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError marks a capability response that was reachable but not
// structurally parseable.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparseable capability response: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// BackendError wraps a failed calendar backend call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("calendar %s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

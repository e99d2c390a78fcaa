package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound signals an unknown lookup session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownField signals a filter key outside the recognized set.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrAdvancedUnavailable signals that the current tier has no advanced search.
	ErrAdvancedUnavailable = errors.New("advanced search not available")
	// ErrTransport signals a failed call to a backend collaborator.
	ErrTransport = errors.New("transport failure")
)

// TransportError describes a failed backend call.
// It matches ErrTransport with errors.Is and unwraps to the cause.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d", ErrTransport.Error(), e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrTransport.Error(), e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrTransport.Error(), e.Op)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NewTransportError creates a transport error for op.
func NewTransportError(op string, status int, err error) error {
	return &TransportError{Op: op, StatusCode: status, Err: err}
}

package notification

import "fmt"

// ValidationError reports a malformed notification event. It is returned
// synchronously to whoever built the event and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// StoreError wraps a user store read failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("user store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DispatchError means the push gateway failed every batch before producing a ticket.
type DispatchError struct {
	RequestID string
	Chunks    int
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: all %d chunk(s) failed: %v", e.RequestID, e.Chunks, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

package errors

import (
	"errors"
	"fmt"
)

// ErrValidation is returned for bad user input
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrConflict is returned when an operation collides with existing state
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrSubmissionInProgress is returned when a cart commit is already running
type ErrSubmissionInProgress struct {
	CartID string
}

func (e *ErrSubmissionInProgress) Error() string {
	return fmt.Sprintf("cart %s: submission already in progress", e.CartID)
}

// ErrNetwork wraps a transport failure talking to the backend
type ErrNetwork struct {
	Op  string
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// ErrPersistence is returned when the backend rejects a write.
// Index is the position of the failed line item during a commit, -1 otherwise.
type ErrPersistence struct {
	Op         string
	Index      int
	StatusCode int
	Body       string
	Err        error
}

func (e *ErrPersistence) Error() string {
	msg := e.Op
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s (item %d)", msg, e.Index)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s, body: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ErrPersistence) Unwrap() error {
	return e.Err
}

// ErrInvalidStateTransition is returned for a disallowed status change
type ErrInvalidStateTransition struct {
	From fmt.Stringer
	To   fmt.Stringer
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// Is is errors.Is from the standard library.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As from the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
}

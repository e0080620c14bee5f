package domain

import (
	"errors"
	"fmt"
)

// Error classes surfaced by the application services.
// Use errors.Is() to check for these in calling code.
var (
	// ErrInvalidInput covers empty or oversized text, bad feedback values and malformed ids.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates an unknown session or message.
	ErrNotFound = errors.New("not found")

	// ErrInternal indicates a broken invariant, e.g. an append failing after an existence check.
	ErrInternal = errors.New("internal error")
)

// NotFoundError wraps ErrNotFound with entity details.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func SessionNotFound(id SessionID) error {
	return &NotFoundError{Entity: "session", ID: string(id)}
}

func MessageNotFound(id MessageID) error {
	return &NotFoundError{Entity: "message", ID: fmt.Sprint(int(id))}
}

// InvalidInput formats a message and tags it with ErrInvalidInput.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrDuplicateEntry      = fmt.Errorf("%w: duplicate entry", ErrConstraintViolation)
	ErrSchema              = errors.New("schema migration failed")

	// Input errors.
	ErrInvalidInput = errors.New("invalid input")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Describe maps storage errors to the message a caller should show.
// Errors that are not part of the taxonomy are reported as a generic failure.
func Describe(err error) string {
	var userErr *UserError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &userErr):
		return userErr.UserMessage
	case errors.Is(err, ErrDuplicateEntry):
		return "already exists"
	case errors.Is(err, ErrConstraintViolation):
		return "rejected by a data constraint"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, ErrSchema):
		return "database could not be initialized"
	default:
		return "something went wrong, please retry"
	}
}

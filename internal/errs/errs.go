// Package errs holds the error kinds shared by repositories, services and handlers.
package errs

import "errors"

// Kinds. Repositories return these directly; services wrap them with a
// client-facing message through New or one of the helpers below.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-facing message on top of one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) error   { return New(ErrValidation, message) }
func Unauthorized(message string) error { return New(ErrUnauthorized, message) }
func NotFound(message string) error     { return New(ErrNotFound, message) }
func Conflict(message string) error     { return New(ErrConflict, message) }

// Message returns the client-facing message of err, or "" when err is not an *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

package contract

import (
	"errors"
	"fmt"
)

// Kind classifies a rejection. Every rejected interaction carries exactly
// one kind and one human-readable message; the host records both.
type Kind string

const (
	// KindValidation marks malformed input: wrong shape, type, or range.
	KindValidation Kind = "validation"

	// KindAuthorization marks a caller lacking required ownership.
	KindAuthorization Kind = "authorization"

	// KindStateConflict marks an operation the current state disallows.
	KindStateConflict Kind = "state-conflict"

	// KindInsufficientFunds marks a debit exceeding the caller's balance.
	KindInsufficientFunds Kind = "insufficient-funds"

	// KindNotFound marks a missing name, gateway, or vault.
	KindNotFound Kind = "not-found"
)

// Error is the typed rejection returned by every component. Rejections are
// normal outcomes, never process-fatal.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements error.
func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrValidation builds a validation rejection.
func ErrValidation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// ErrAuthorization builds an authorization rejection.
func ErrAuthorization(format string, args ...any) *Error {
	return newError(KindAuthorization, format, args...)
}

// ErrStateConflict builds a state-conflict rejection.
func ErrStateConflict(format string, args ...any) *Error {
	return newError(KindStateConflict, format, args...)
}

// ErrInsufficientFunds builds an insufficient-funds rejection.
func ErrInsufficientFunds(format string, args ...any) *Error {
	return newError(KindInsufficientFunds, format, args...)
}

// ErrNotFound builds a not-found rejection.
func ErrNotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// KindOf extracts the kind from err, or the empty kind for foreign errors.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Package apperr defines the error taxonomy shared by every service layer.
// Handlers never inspect raw store errors; services translate them into one
// of these kinds and the HTTP layer maps each kind to a fixed status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for status mapping.
type Kind string

const (
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindConflict           Kind = "CONFLICT"
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindValidation         Kind = "VALIDATION"
	KindInternal           Kind = "INTERNAL"
)

// Error carries a kind, a user-visible message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func InvalidCredentials(message string) error {
	return &Error{Kind: KindInvalidCredentials, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Status maps an error to its fixed HTTP status code. Conflict and
// InvalidCredentials surface as 400, matching the API contract.
func Status(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidCredentials, KindConflict, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible message for err. Unclassified errors are
// masked so store details never leak to clients.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Internal server error"
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

func IsInvalidCredentials(err error) bool {
	return KindOf(err) == KindInvalidCredentials
}

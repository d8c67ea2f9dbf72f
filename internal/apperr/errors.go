package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure the way the UI has to react to it.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindTimeout         Kind = "TIMEOUT"
	KindUnknown         Kind = "UNKNOWN"
)

// Common sentinel errors used across services.
var (
	ErrNotSignedIn        = New(KindUnauthenticated, "sign-in required")
	ErrSessionUnconfirmed = New(KindTimeout, "session not confirmed in time")
	ErrBusy               = New(KindValidation, "another submit is still in progress")
)

// Error is the application error with a Kind attached. The Kind, not the
// message, is the source of truth for how callers react.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match two app errors by kind, so sentinels work as
// comparison targets regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind && (other.Message == "" || other.Message == e.Message)
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Timeout(message string) *Error {
	return New(KindTimeout, message)
}

// KindOf extracts the kind from any error; plain errors are Unknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps a kind onto the status the API surface responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the API can return. Handlers map any error
// to exactly one of these; nothing else reaches the client.
type Kind int

const (
	KindUnauthenticated Kind = iota // missing/invalid credential
	KindForbidden                   // role or ownership mismatch
	KindInvalidInput                // malformed body, enum, or id format
	KindNotFound                    // referenced entity absent
	KindConflict                    // duplicate or unsettled-state rejection
	KindUpstream                    // provider or persistence failure
)

// Error carries the taxonomy kind, a stable machine code and a
// human-readable message. The wrapped error is for logs only and is never
// serialized into a response.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: "UNAUTHENTICATED", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: "INVALID_INPUT", Message: message}
}

func InvalidInputErr(message string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Code: "INVALID_INPUT", Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

// Conflict keeps a caller-supplied code so rejections like
// PAYMENT_NOT_SETTLED or ALREADY_REVIEWED stay distinguishable.
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Code: "UPSTREAM_FAILURE", Message: message, Err: err}
}

// From extracts an *Error if err is one, or wraps it as an upstream failure
// with a sanitized message otherwise.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindUpstream, Code: "UPSTREAM_FAILURE", Message: "Internal server error", Err: err}
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

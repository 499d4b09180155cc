// Package apperror defines the error kinds shared by the mediator, the RPC
// router and the patch engines. Kinds are converted to wire codes only at the
// outermost boundary (pkg/rpc and the HTTP layer).
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidParams
	KindPatch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidParams:
		return "invalid_params"
	case KindPatch:
		return "patch"
	default:
		return "internal"
	}
}

// Error is a structured application error.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NotFound reports a missing resource.
func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// InvalidParams reports input that could not be decoded.
func InvalidParams(message string, cause error) *Error {
	return Wrap(KindInvalidParams, message, cause)
}

// Invalid reports domain-level input rejection.
func Invalid(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}

// kinded is implemented by error types outside this package that carry a kind.
type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

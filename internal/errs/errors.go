// Package errs defines the error taxonomy shared by all request handlers.
// Handlers classify failures into one of the four kinds below; the web
// server's central error handler maps each kind to an HTTP status.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnauthorized:
		return "UnauthorizedError"
	case KindNotFound:
		return "NotFoundError"
	case KindDependency:
		return "DependencyError"
	default:
		return "UnknownError"
	}
}

// Error carries a classified failure across layer boundaries.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Kind() Kind {
	return e.kind
}

func Validation(msg string) error {
	return &Error{kind: KindValidation, msg: msg}
}

func Validationf(format string, args ...interface{}) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Error{kind: KindUnauthorized, msg: msg}
}

func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

// Dependency wraps a persistence-layer failure. The cause is preserved for
// logging but never surfaced to API clients.
func Dependency(msg string, cause error) error {
	return &Error{kind: KindDependency, msg: msg, cause: errors.WithStack(cause)}
}

// KindOf reports the classification of err, or false for unclassified errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

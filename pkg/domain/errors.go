package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can branch without string
// matching. Provider errors are the residual class for anything the cloud
// rejects that is not a permission, existence or timeout problem.
type ErrorKind string

const (
	KindConfig     ErrorKind = "config"
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindTimeout    ErrorKind = "timeout"
	KindAccess     ErrorKind = "access_denied"
	KindProvider   ErrorKind = "provider"
)

// Error wraps an underlying failure with its kind and the operation that
// produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error. A nil underlying error is allowed for
// failures that are entirely described by op and kind.
func E(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Ef is E with a formatted message as the underlying error.
func Ef(kind ErrorKind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, or KindProvider if err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProvider
}

func IsConfig(err error) bool     { return KindOf(err) == KindConfig }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsTimeout(err error) bool    { return KindOf(err) == KindTimeout }
func IsAccess(err error) bool     { return KindOf(err) == KindAccess }

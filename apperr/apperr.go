// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apperr defines the error taxonomy shared by the core components.
// Every core operation fails with one of these kinds; the HTTP layer maps
// kinds to status codes and never sees a bare error.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindForbidden
	KindInvalidState
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-facing message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

func InvalidState(msg string) error { return &Error{Kind: KindInvalidState, Msg: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps an unexpected failure (store errors, mostly).
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// Internalf is Internal with a formatted message and no cause.
func Internalf(format string, args ...interface{}) error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain. Unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message without the wrapped cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

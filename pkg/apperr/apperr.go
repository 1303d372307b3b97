// Package apperr defines the structured, recoverable error taxonomy shared
// by all services. Every business failure is an *apperr.Error with a Kind;
// controllers map kinds to HTTP statuses, so transport code never inspects
// error strings.
//
// Infrastructure failures (database down, timeouts) are wrapped as
// KindUnavailable so callers can distinguish "your request was bad" from
// "try again later".
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business failure.
type Kind int

const (
	// KindUnknown is the zero value; treated as an internal error.
	KindUnknown Kind = iota
	// KindNotFound — order/product/restaurant/review absent.
	KindNotFound
	// KindValidation — malformed quantities, scores, empty line lists.
	KindValidation
	// KindInvalidTransition — illegal order status change.
	KindInvalidTransition
	// KindNotDeletable — deletion attempted on an in-flight order.
	KindNotDeletable
	// KindForbidden — actor lacks rights over the target resource.
	KindForbidden
	// KindDuplicate — uniqueness violated (one review per user per restaurant).
	KindDuplicate
	// KindConflict — concurrent-write race lost; retry against current state.
	KindConflict
	// KindUnavailable — transient storage failure that survived the retry.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindNotDeletable:
		return "not_deletable"
	case KindForbidden:
		return "forbidden"
	case KindDuplicate:
		return "duplicate"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is the taxonomy-carrying error type.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error that carries an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NotFound, Validation, etc. are shorthand constructors for the common kinds.

func NotFound(format string, args ...any) *Error { return New(KindNotFound, format, args...) }

func Validation(format string, args ...any) *Error { return New(KindValidation, format, args...) }

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

func NotDeletable(format string, args ...any) *Error { return New(KindNotDeletable, format, args...) }

func Forbidden(format string, args ...any) *Error { return New(KindForbidden, format, args...) }

func Duplicate(format string, args ...any) *Error { return New(KindDuplicate, format, args...) }

func Conflict(format string, args ...any) *Error { return New(KindConflict, format, args...) }

func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Msg: "storage unavailable, try again later", Err: err}
}

// KindOf extracts the Kind from any error. Non-taxonomy errors report
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is lets errors.Is match two taxonomy errors by kind, so tests can write
// errors.Is(err, apperr.New(apperr.KindConflict, "")) without depending on
// exact messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus maps a Kind to the HTTP status a controller should send.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindInvalidTransition, KindNotDeletable, KindDuplicate, KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message of a taxonomy error, or a generic
// message for anything else (internal details never leak to clients).
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnknown && e.Kind != KindUnavailable {
		return e.Msg
	}
	if KindOf(err) == KindUnavailable {
		return "service temporarily unavailable"
	}
	return "internal server error"
}

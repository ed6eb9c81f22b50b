package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed operation. Every kind is a local validation or
// state failure; none of them is retried.
type ErrorKind string

const (
	KindInvalidRange      ErrorKind = "INVALID_RANGE"
	KindOutOfWindow       ErrorKind = "OUT_OF_WINDOW"
	KindMissingDates      ErrorKind = "MISSING_DATES"
	KindInsuranceRequired ErrorKind = "INSURANCE_REQUIRED"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindAlreadyDecided    ErrorKind = "ALREADY_DECIDED"
	KindCorruptState      ErrorKind = "CORRUPT_STATE"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindInvalidStatus     ErrorKind = "INVALID_STATUS"
	KindInvalidRole       ErrorKind = "INVALID_ROLE"
	KindInvalidInput      ErrorKind = "INVALID_INPUT"
	KindPendingRequests   ErrorKind = "PENDING_REQUESTS"
)

// Error is the typed failure returned by the booking core. Two errors match
// under errors.Is when their kinds are equal, so callers compare against the
// Err* sentinels regardless of the message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Expected reports whether the failure is a rejection of the caller's input
// rather than a fault in the stored data.
func (e *Error) Expected() bool {
	return e.Kind != KindCorruptState
}

// NewError builds an error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidRange      = &Error{Kind: KindInvalidRange, Message: "end date must be after start date"}
	ErrOutOfWindow       = &Error{Kind: KindOutOfWindow, Message: "requested dates are outside the availability window"}
	ErrMissingDates      = &Error{Kind: KindMissingDates, Message: "please select both start and end dates"}
	ErrInsuranceRequired = &Error{Kind: KindInsuranceRequired, Message: "insurance is required for this equipment"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAlreadyDecided    = &Error{Kind: KindAlreadyDecided, Message: "rental request has already been decided"}
	ErrCorruptState      = &Error{Kind: KindCorruptState, Message: "stored state is corrupt"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "operation not permitted for this user"}
	ErrInvalidStatus     = &Error{Kind: KindInvalidStatus, Message: "status must be approved or rejected"}
	ErrInvalidRole       = &Error{Kind: KindInvalidRole, Message: "role must be requester or owner"}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrPendingRequests   = &Error{Kind: KindPendingRequests, Message: "equipment has pending rental requests"}
)

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// NotFound reports a missing record of the named collection.
func NotFound(what, id string) error {
	return NewError(KindNotFound, "%s %q not found", what, id)
}

// AlreadyDecided reports a request that has left pending.
func AlreadyDecided(id string, status RentalStatus) error {
	return NewError(KindAlreadyDecided, "rental request %s is already %s", id, status)
}

// CorruptState reports a stored record that failed typed decoding.
func CorruptState(format string, args ...any) error {
	return NewError(KindCorruptState, "corrupt state: "+format, args...)
}

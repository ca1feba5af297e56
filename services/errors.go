package services

import (
	"errors"
	"fmt"
)

// Kind errors for errors.Is checks. Every rejected operation surfaces exactly
// one of these plus a human-readable reason.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRange       = errors.New("invalid range")
	ErrPastStart          = errors.New("start time in the past")
	ErrConflict           = errors.New("scheduling conflict")
	ErrNotAvailable       = errors.New("lesson not available")
	ErrAlreadyBooked      = errors.New("lesson already booked")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyCompleted   = errors.New("lesson already completed")
	ErrCalendarNotLinked  = errors.New("calendar not linked")
	ErrNotBookedByStudent = errors.New("lesson not booked by this student")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyPaid        = errors.New("transaction already paid")
	ErrAlreadyCanceled    = errors.New("transaction already canceled")

	ErrExternalAuthExpired = errors.New("external authorization expired")
	ErrExternalForbidden   = errors.New("external permission denied")
	ErrExternalFailure     = errors.New("external service failure")
)

// Error pairs a stable kind with the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// E builds a service error of the given kind.
func E(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

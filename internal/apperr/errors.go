// Package apperr defines the error kinds shared by the scheduling core.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrAuthorization     = errors.New("operation not permitted")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Validation reasons.
const (
	ReasonPastDate        = "past-date"
	ReasonInvalidDate     = "invalid-date"
	ReasonSlotUnavailable = "slot-unavailable"
	ReasonUnknownRole     = "unknown-role"
	ReasonInvalidStatus   = "invalid-status"
	ReasonInvalidRecord   = "invalid-record"
	ReasonInvalidKind     = "invalid-kind"
)

// Error carries a kind plus a machine readable reason.
type Error struct {
	Kind   error
	Reason string
	Msg    string
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Msg != "":
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Reason, e.Msg)
	case e.Reason != "":
		return fmt.Sprintf("%s (%s)", e.Kind, e.Reason)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(reason, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) error {
	return &Error{Kind: ErrAuthorization, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...any) error {
	return &Error{Kind: ErrInvalidTransition, Msg: fmt.Sprintf(format, args...)}
}

// Reason returns the reason attached to err, or "" if there is none.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

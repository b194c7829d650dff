package room

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrState      = errors.New("invalid state")
)

// Error is returned by every coordinator and registry operation. Kind is one of
// the sentinel errors above so callers can match with errors.Is.
type Error struct {
	Kind error
	Op   string
	Msg  string
}

func NewError(kind error, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Code maps err to the code string sent in errorMessage events.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrState):
		return "state"
	default:
		return "internal"
	}
}

func message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

// ErrorPayloadFor builds the errorMessage body for err.
func ErrorPayloadFor(err error) ErrorPayload {
	return ErrorPayload{Code: Code(err), Message: message(err)}
}

// Package errors defines the coded errors shared by the engine, the CLI and
// the HTTP API.
//
// Every error that reaches a user carries a [Code]. STRUCTURAL marks a lane
// or milestone specification that cannot be turned into a pool; the message
// is meant to be shown verbatim to whoever wrote the specification. The
// INVALID_* codes cover flags, files and documents, and NOT_FOUND covers
// missing sessions and files. Unknown lane or milestone ids in queries are
// not errors; queries report them with an ok flag or an empty result.
//
//	err := errors.New(errors.ErrCodeStructural, "duplicate lane id %q", id)
//	errors.Is(err, errors.ErrCodeStructural) // true
//
// A Code is itself an error value, so the standard library's errors.Is
// matches it against any coded error in the chain.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeStructural Code = "STRUCTURAL"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidID     Code = "INVALID_ID"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

func (c Code) Error() string { return string(c) }

// Error is an error with a code, a user-facing message and an optional
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match e against a bare Code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is like New but records cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

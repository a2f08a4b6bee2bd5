// Package seerrors implements the engine's error taxonomy.
//
// It mirrors the original C ABI's SearchEngineError enum (construction
// errors, argument errors, engine errors, not-supported) while staying
// idiomatic Go: a typed Code plus a wrapping *Error that satisfies the
// standard error interface and unwraps with errors.Is/errors.As.
package seerrors

import (
	"errors"
	"fmt"
)

// Code enumerates the engine's error categories, in the same order as
// the original SearchEngineError enum.
type Code int

const (
	NoError Code = iota
	BadArgument
	NotSupported
	InvalidContext
	FileOpenFailed
	FileStatFailed
	FileMapFailed
	InitFailed
	EngineOpFailed
	UnknownError
)

func (c Code) String() string {
	switch c {
	case NoError:
		return "NoError"
	case BadArgument:
		return "BadArgument"
	case NotSupported:
		return "NotSupported"
	case InvalidContext:
		return "InvalidContext"
	case FileOpenFailed:
		return "FileOpenFailed"
	case FileStatFailed:
		return "FileStatFailed"
	case FileMapFailed:
		return "FileMapFailed"
	case InitFailed:
		return "InitFailed"
	case EngineOpFailed:
		return "EngineOpFailed"
	default:
		return "UnknownError"
	}
}

// Error pairs a Code with a message and an optional wrapped cause.
type Error struct {
	Code  Code
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.msg)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an *Error with a formatted message and no cause.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Code and message to an existing error. Returns nil if
// err is nil, matching dtail's errors.Wrap contract.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, msg: msg, cause: err}
}

// CodeOf extracts the Code carried by err, or UnknownError if err does
// not wrap one of our *Error values.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	if err == nil {
		return NoError
	}
	return UnknownError
}

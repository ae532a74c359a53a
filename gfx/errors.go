// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

// ErrorCode is a GL-style error flag recorded by contexts that track
// invalid API usage instead of returning errors.
type ErrorCode uint32

const (
	// NoError means no error has been recorded since the last query.
	NoError ErrorCode = iota
	// InvalidEnum is recorded for an unknown enumerant (e.g. a bad stage).
	InvalidEnum
	// InvalidValue is recorded for an unknown object name.
	InvalidValue
	// InvalidOperation is recorded for a call that is not allowed in the
	// current state (no bound program, mismatched uniform type).
	InvalidOperation
)

// String returns the GL name of the error code.
func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	default:
		return "UNKNOWN_ERROR"
	}
}

// ErrorReporter is implemented by contexts that record an error flag.
// Err returns the oldest recorded error and clears it, like glGetError.
type ErrorReporter interface {
	Err() ErrorCode
}

// Package errors carries a machine readable Code alongside error messages so
// callers can tell a bad request from a broken battle without string
// matching.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an error
type Code string

const (
	// CodeUnknown is anything that did not come through this package
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument is a request that cannot be applied, such as a dead
	// target or a spell the actor cannot pay for
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound is a missing battle, combatant, template or magic
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists is a second write under an ID already taken
	CodeAlreadyExists Code = "already_exists"

	// CodeFailedPrecondition is a call the battle's phase does not allow
	CodeFailedPrecondition Code = "failed_precondition"

	// CodeInternal is a broken invariant inside the engine
	CodeInternal Code = "internal"

	// CodeValidation is bad setup data: rosters, catalogs, rules
	CodeValidation Code = "validation"
)

// Error is a coded error with optional cause and metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a key/value pair and returns e for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap adds context to err. The wrapped error keeps the code found in err's
// chain; invariant errors become internal and anything else unknown.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
		Meta:    copyMeta(GetMeta(err)),
	}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode adds context to err and replaces its code
func WrapWithCode(err error, code Code, message string) *Error {
	wrapped := Wrap(err, message)
	if wrapped != nil {
		wrapped.Code = code
	}
	return wrapped
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return New(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

func AlreadyExistsf(format string, args ...any) *Error {
	return New(CodeAlreadyExists, fmt.Sprintf(format, args...))
}

func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }

func FailedPreconditionf(format string, args ...any) *Error {
	return New(CodeFailedPrecondition, fmt.Sprintf(format, args...))
}

func Internal(message string) *Error { return New(CodeInternal, message) }

func Internalf(format string, args ...any) *Error {
	return New(CodeInternal, fmt.Sprintf(format, args...))
}

func Validation(message string) *Error { return New(CodeValidation, message) }

func Validationf(format string, args ...any) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

// Is reports whether err carries code anywhere in its chain
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

func IsNotFound(err error) bool           { return Is(err, CodeNotFound) }
func IsInvalidArgument(err error) bool    { return Is(err, CodeInvalidArgument) }
func IsAlreadyExists(err error) bool      { return Is(err, CodeAlreadyExists) }
func IsFailedPrecondition(err error) bool { return Is(err, CodeFailedPrecondition) }
func IsInternal(err error) bool           { return Is(err, CodeInternal) }
func IsValidation(err error) bool         { return Is(err, CodeValidation) }

// GetCode returns the outermost code in err's chain
func GetCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	if IsInvariant(err) {
		return CodeInternal
	}
	return CodeUnknown
}

// GetMeta returns the metadata of the outermost coded error in err's chain
func GetMeta(err error) map[string]any {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}

package reactive

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes reactive errors.
type ErrorCode string

const (
	// ErrCodeInvalidDeclaration indicates a Volatile property declared absent.
	ErrCodeInvalidDeclaration ErrorCode = "INVALID_DECLARATION"

	// ErrCodeUnknownPropertyKind indicates an unrecognized kind.
	ErrCodeUnknownPropertyKind ErrorCode = "UNKNOWN_PROPERTY_KIND"

	// ErrCodeUnknownProperty indicates a read of an undeclared name.
	ErrCodeUnknownProperty ErrorCode = "UNKNOWN_PROPERTY"

	// ErrCodeDecode indicates a persisted payload that could not be decoded.
	// Only reported through logs and signals.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
)

// ErrCanceled is the error a Future settles with when Cancel is called.
var ErrCanceled = errors.New("reactive: future canceled")

// Error is a structured reactive error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Owner names the Reactive instance (WithName), if set.
	Owner string

	// Property is the affected property name, if any.
	Property string

	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Owner != "" {
		msg = fmt.Sprintf("[%s] %s", e.Owner, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code, so errors.Is works against
// the code-only sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == "" && t.Property == ""
}

// Code-only sentinels for errors.Is.
var (
	ErrInvalidDeclaration  = &Error{Code: ErrCodeInvalidDeclaration}
	ErrUnknownPropertyKind = &Error{Code: ErrCodeUnknownPropertyKind}
	ErrUnknownProperty     = &Error{Code: ErrCodeUnknownProperty}
)

// IsCode reports whether err is or wraps an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

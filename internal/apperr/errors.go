package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota // missing or malformed input
	KindConflict               // duplicate email
	KindAuth                   // credential mismatch
	KindNotFound               // no matching record
	KindUpload                 // media store returned incomplete result
	KindRateLimited            // too many OTP requests
	KindInternal               // unexpected collaborator failure
)

// Error is the unit of the service error taxonomy. Message is safe to show to
// callers; the wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func Auth(msg string) *Error        { return &Error{Kind: KindAuth, Message: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }
func Upload(msg string) *Error      { return &Error{Kind: KindUpload, Message: msg} }
func RateLimited(msg string) *Error { return &Error{Kind: KindRateLimited, Message: msg} }

// Internal wraps an unexpected failure. The caller-visible message stays
// generic; cause lands in the logs.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}

// Status maps a Kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindAuth, KindNotFound:
		return 400
	case KindRateLimited:
		return 429
	default:
		return 500
	}
}

// As extracts an *Error from err, or wraps err as internal.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

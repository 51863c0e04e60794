package apperr

import (
	"errors"
	"fmt"
)

// AppError is the error type crossing the store boundary. Code identifies
// the violated contract; Cause carries the underlying driver error, if any.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is makes two AppErrors match on Code alone, so callers can test against
// the sentinel values with errors.Is regardless of message detail.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the application code from any error chain.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

func DuplicateEntry(msg string) error    { return New(CodeDuplicateEntry, msg) }
func NotFound(msg string) error          { return New(CodeNotFound, msg) }
func OwnershipMismatch(msg string) error { return New(CodeOwnershipMismatch, msg) }
func InvalidValue(msg string) error      { return New(CodeInvalidValue, msg) }
func InvalidTransition(msg string) error { return New(CodeInvalidTransition, msg) }
func Internal(msg string) error          { return New(CodeInternal, msg) }

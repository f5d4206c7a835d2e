package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request raced with another writer and lost.
var ErrConflict = errors.New("conflict")

// ErrInsufficientStock indicates that a sale asked for more units than a product has on hand.
// It wraps ErrConflict so callers matching on conflicts catch it too.
var ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)

// AppError carries an HTTP-ish code and a safe message alongside the underlying cause.
// The message is what callers may show; Err is for logs only.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap lets errors.Is/As see through to the sentinel or driver error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Validationf returns an ErrValidation wrapped with a formatted, user-safe detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf returns an ErrNotFound wrapped with a formatted detail.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

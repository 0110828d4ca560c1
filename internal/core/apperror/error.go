// Package apperror provides structured errors for the register.
// Storage and domain layers return *AppError so callers can branch on Code
// and the console can show Message without the internal cause.
package apperror

import (
	"errors"
	"fmt"
)

// Code identifies an error class.
type Code string

const (
	CodeInternal = Code("INTERNAL_ERROR")
	CodeStorage  = Code("STORAGE_ERROR")

	CodeValidation   = Code("VALIDATION_ERROR")
	CodeInvalidInput = Code("INVALID_INPUT")

	// A row whose arity does not match the log's columns.
	CodeSchemaViolation = Code("SCHEMA_VIOLATION")
	// A persisted row that cannot be decoded back into the domain.
	CodeCorruptLog = Code("CORRUPT_LOG")

	CodeUnauthorized = Code("UNAUTHORIZED")
	CodeNotFound     = Code("NOT_FOUND")
)

// AppError is the error type shared by every register layer.
type AppError struct {
	Code    Code
	Message string
	// Details holds file, row, entity and similar context for logs.
	Details map[string]any
	Err     error
}

// Error renders code, message and cause.
func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *AppError) Unwrap() error { return e.Err }

// Is matches on code and message, so package-level sentinels work with
// errors.Is regardless of details or cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// WithDetail records key in Details and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the wrapped error and returns e.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func newError(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidation reports a domain rule the request breaks.
func NewValidation(message string) *AppError { return newError(CodeValidation, message) }

// NewInvalidInput reports operator input the console rejects.
func NewInvalidInput(message string) *AppError { return newError(CodeInvalidInput, message) }

// NewSchemaViolation reports rows that do not fit a log's columns.
func NewSchemaViolation(message string) *AppError { return newError(CodeSchemaViolation, message) }

// NewUnauthorized reports a failed admin PIN check.
func NewUnauthorized(message string) *AppError { return newError(CodeUnauthorized, message) }

// NewNotFound reports an unknown entity id.
func NewNotFound(entity string, id any) *AppError {
	return newError(CodeNotFound, entity+" not found").
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// NewCorruptLog reports row (1-based, header included) of file as undecodable.
func NewCorruptLog(file string, row int, err error) *AppError {
	return newError(CodeCorruptLog, fmt.Sprintf("corrupt row %d in %s", row, file)).
		WithDetail("file", file).
		WithDetail("row", row).
		WithCause(err)
}

// NewStorage wraps a filesystem failure during op.
func NewStorage(op string, err error) *AppError {
	return newError(CodeStorage, op+" failed").WithCause(err)
}

// NewInternal wraps a failure the operator cannot act on.
func NewInternal(err error) *AppError {
	return newError(CodeInternal, "internal error").WithCause(err)
}

// AsAppError returns the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err's chain carries an AppError with code.
func HasCode(err error, code Code) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsSchemaViolation reports whether err carries CodeSchemaViolation.
func IsSchemaViolation(err error) bool { return HasCode(err, CodeSchemaViolation) }

// IsCorruptLog reports whether err carries CodeCorruptLog.
func IsCorruptLog(err error) bool { return HasCode(err, CodeCorruptLog) }

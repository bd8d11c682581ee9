// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown              = "UNKNOWN_ERROR"
	CodeParseError           = "PARSE_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeStructuralValidation = "STRUCTURAL_VALIDATION"
	CodeReferenceResolution  = "REFERENCE_RESOLUTION"
	CodeNotFound             = "NOT_FOUND"
	CodeDownloadError        = "DOWNLOAD_ERROR"
	CodeConfigError          = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances, usable as errors.Is targets.
var (
	ErrParseError           = New(CodeParseError, "parse error")
	ErrInvalidInput         = New(CodeInvalidInput, "invalid input")
	ErrStructuralValidation = New(CodeStructuralValidation, "structural validation failed")
	ErrReferenceResolution  = New(CodeReferenceResolution, "reference resolution failed")
	ErrNotFound             = New(CodeNotFound, "resource not found")
	ErrDownloadError        = New(CodeDownloadError, "download error")
	ErrConfigError          = New(CodeConfigError, "configuration error")
)

// IsStructuralError checks if the error is a structural validation failure.
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrStructuralValidation)
}

// IsReferenceError checks if the error is a reference resolution failure.
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrReferenceResolution)
}

// IsNotFound checks if the error is a lookup-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if the error is an input-shape rejection.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsFatal reports whether err belongs to a category that aborts a decode.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case CodeParseError, CodeInvalidInput, CodeStructuralValidation, CodeReferenceResolution:
		return true
	default:
		return false
	}
}

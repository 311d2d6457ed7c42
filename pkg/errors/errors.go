package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Template retrieval errors
	ErrDownloadFailed ErrorCode = "DOWNLOAD_FAILED"
	ErrBadStatus      ErrorCode = "BAD_STATUS"
	ErrArchiveInvalid ErrorCode = "ARCHIVE_INVALID"
	ErrArchiveLayout  ErrorCode = "ARCHIVE_LAYOUT"
	ErrTemplateEmpty  ErrorCode = "TEMPLATE_EMPTY"

	// Scaffold errors
	ErrConflict        ErrorCode = "CONFLICT"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"
	ErrWriteFailed     ErrorCode = "WRITE_FAILED"
	ErrDirCreate       ErrorCode = "DIR_CREATE"
)

// InitError represents a structured error with code and details
type InitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *InitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *InitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *InitError) Is(target error) bool {
	var targetErr *InitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new InitError with the given code and message
func New(code ErrorCode, message string) *InitError {
	return &InitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new InitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *InitError {
	return &InitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an InitError
func Wrap(err error, code ErrorCode, message string) *InitError {
	if err == nil {
		return nil
	}
	return &InitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *InitError {
	if err == nil {
		return nil
	}
	return &InitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *InitError) WithDetail(key string, value interface{}) *InitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var initErr *InitError
	if errors.As(err, &initErr) {
		return initErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an InitError
func GetErrorCode(err error) ErrorCode {
	var initErr *InitError
	if errors.As(err, &initErr) {
		return initErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an InitError
func GetErrorDetails(err error) map[string]interface{} {
	var initErr *InitError
	if errors.As(err, &initErr) {
		return initErr.Details
	}
	return nil
}

package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every error the registry surfaces
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInactive      ErrorCode = "INACTIVE"
	ErrCodeDuplicate     ErrorCode = "DUPLICATE"
	ErrCodeNoOp          ErrorCode = "NO_OP"
)

// RegistryError represents a structured error in the registry
type RegistryError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *RegistryError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a contextual detail to the error
func (e *RegistryError) WithDetail(key string, value interface{}) *RegistryError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewNotFoundError reports that a referenced id is unoccupied
func NewNotFoundError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewAlreadyExistsError reports that an id is already occupied at creation
func NewAlreadyExistsError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// NewUnauthorizedError reports that the caller fails the applicable access rule
func NewUnauthorizedError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidInputError reports a malformed or out-of-range field
func NewInvalidInputError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewInactiveError reports that the operation target has been deactivated
func NewInactiveError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeInactive, Message: fmt.Sprintf(format, args...)}
}

// NewDuplicateError reports a label or hash already recorded for the patient
func NewDuplicateError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeDuplicate, Message: fmt.Sprintf(format, args...)}
}

// NewNoOpError reports an update that would not change stored state
func NewNoOpError(format string, args ...interface{}) *RegistryError {
	return &RegistryError{Code: ErrCodeNoOp, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code from err, or an empty code if err is not
// a RegistryError
func CodeOf(err error) ErrorCode {
	var regErr *RegistryError
	if errors.As(err, &regErr) {
		return regErr.Code
	}
	return ""
}

// IsRegistryError checks whether err carries a registry error code
func IsRegistryError(err error) bool {
	var regErr *RegistryError
	return errors.As(err, &regErr)
}

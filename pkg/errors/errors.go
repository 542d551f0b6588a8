package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error for transport mapping and branch handling.
type ErrorType string

const (
	// Request errors
	ErrorTypeInvalidQuery ErrorType = "INVALID_QUERY"
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// Scoring errors
	ErrorTypeDimensionMismatch ErrorType = "DIMENSION_MISMATCH"

	// Collaborator errors
	ErrorTypeUpstream ErrorType = "UPSTREAM_FAILURE"
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError carries a typed error through the application layers.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewInvalidQueryError rejects a search query before any scoring happens.
func NewInvalidQueryError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidQuery,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewDimensionMismatchError reports embedding vectors of unequal length.
// The ranker treats this as "no vector score available"; it is never
// expected to cross the API boundary.
func NewDimensionMismatchError(lenA, lenB int) *AppError {
	return &AppError{
		Type:       ErrorTypeDimensionMismatch,
		Message:    fmt.Sprintf("embedding dimensions differ: %d vs %d", lenA, lenB),
		Details:    map[string]interface{}{"len_a": lenA, "len_b": lenB},
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewUpstreamError wraps a collaborator failure (item source, embedding
// source, narrative generator). Callers degrade the affected branch.
func NewUpstreamError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    fmt.Sprintf("upstream '%s' failed", service),
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    fmt.Sprintf("database operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsInvalidQuery checks if an error is a query rejection
func IsInvalidQuery(err error) bool {
	return IsType(err, ErrorTypeInvalidQuery)
}

// IsDimensionMismatch checks if an error is an embedding length mismatch
func IsDimensionMismatch(err error) bool {
	return IsType(err, ErrorTypeDimensionMismatch)
}

// IsUpstream checks if an error is a collaborator failure
func IsUpstream(err error) bool {
	return IsType(err, ErrorTypeUpstream)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Package support provides domain types for talking to the upstream
// support/refund service.
package support

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard domain errors. Handlers match on these with errors.Is; none
// of them is fatal — every failure is recoverable by user retry.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrConflict     = errors.New("conflicting refund request")
	ErrValidation   = errors.New("invalid request parameters")
	ErrUnavailable  = errors.New("support service temporarily unavailable")
)

// ErrorCode represents upstream support API error codes.
type ErrorCode string

// Error codes emitted by the upstream service.
const (
	CodeNotFound         ErrorCode = "not_found"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeAccessDenied     ErrorCode = "access_denied"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeRefundConflict   ErrorCode = "refund_conflict"
	CodeServerError      ErrorCode = "server_error"
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// APIError represents a structured error from the upstream support API.
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("support [%s]: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("support: %s (status %d)", e.Message, e.StatusCode)
}

// Is implements errors.Is for APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == CodeNotFound || e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.Code == CodeUnauthorized || e.Code == CodeAccessDenied ||
			e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrConflict:
		return e.Code == CodeRefundConflict || e.StatusCode == http.StatusConflict
	case ErrValidation:
		return e.Code == CodeValidationFailed ||
			e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrUnavailable:
		return e.Code == CodeServerError || e.StatusCode >= 500
	default:
		return false
	}
}

// NewAPIError creates a new APIError with the given parameters.
func NewAPIError(code ErrorCode, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// FromStatus creates an APIError for a response where the body carried
// no machine-readable code.
func FromStatus(statusCode int, message string) *APIError {
	return &APIError{
		Message:    message,
		StatusCode: statusCode,
	}
}

// ErrorCategory classifies errors into categories.
type ErrorCategory string

const (
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryValidation     ErrorCategory = "validation"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryServer         ErrorCategory = "server"
	CategoryUnknown        ErrorCategory = "unknown"
)

// Category returns the category of this error.
func (e *APIError) Category() ErrorCategory {
	switch {
	case e.Is(ErrUnauthorized):
		return CategoryAuthentication
	case e.Is(ErrNotFound):
		return CategoryNotFound
	case e.Is(ErrConflict):
		return CategoryConflict
	case e.Is(ErrValidation):
		return CategoryValidation
	case e.Is(ErrUnavailable):
		return CategoryServer
	default:
		return CategoryUnknown
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeProviderTransient covers network/timeout failures talking
	// to the inference provider; eligible for a single retry.
	ErrorTypeProviderTransient ErrorType = "provider_transient"
	// ErrorTypeMalformedResponse means the provider reply could not be
	// parsed even after fallback extraction; never retried.
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	ErrorTypeConfiguration     ErrorType = "configuration"
	ErrorTypeInternal          ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
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

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewProviderTransientError creates an error for a network or timeout
// failure at the inference provider boundary
func NewProviderTransientError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProviderTransient,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewMalformedResponseError creates an error for a provider reply that
// could not be parsed. Details carries the raw reply for diagnostics.
func NewMalformedResponseError(message, rawReply string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformedResponse,
		Message:    message,
		Details:    rawReply,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsRetryable reports whether the error is a transient provider failure
// worth a single retry. Malformed responses are deterministic enough
// that retrying rarely helps, so they are excluded.
func IsRetryable(err error) bool {
	return IsType(err, ErrorTypeProviderTransient)
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

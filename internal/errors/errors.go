package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cognitive-core/agent-gateway/internal/logger"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found_error"
	ErrorTypeInternal      ErrorType = "internal_error"
	ErrorTypeDelegation    ErrorType = "delegation_error"
	ErrorTypeConfiguration ErrorType = "configuration_error"
	ErrorTypeTimeout       ErrorType = "timeout_error"
)

// APIError represents a structured API error
type APIError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse represents the JSON error response format
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError
func NewAPIError(errorType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errorType,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(errorType ErrorType, message, details string) *APIError {
	return &APIError{
		Type:    errorType,
		Message: message,
		Details: details,
	}
}

// HandleError writes a standardized error response to the HTTP response writer
func HandleError(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	var apiError *APIError

	if ae, ok := err.(*APIError); ok {
		apiError = ae
	} else {
		apiError = inferErrorType(err, statusCode)
	}

	response := ErrorResponse{Error: *apiError}

	if jsonBytes, jsonErr := json.Marshal(response); jsonErr == nil {
		w.Write(jsonBytes)
	} else {
		logger.Error("Error marshaling error response", "error", jsonErr)
		w.Write([]byte(`{"error":{"type":"internal_error","message":"Internal server error"}}`))
	}

	logger.Error("API Error",
		"status_code", statusCode,
		"error_type", string(apiError.Type),
		"message", apiError.Message,
	)
}

// inferErrorType infers the error type from the status code
func inferErrorType(err error, statusCode int) *APIError {
	message := err.Error()

	switch statusCode {
	case http.StatusBadRequest:
		return NewAPIError(ErrorTypeValidation, message)
	case http.StatusNotFound:
		return NewAPIError(ErrorTypeNotFound, message)
	case http.StatusGatewayTimeout:
		return NewAPIError(ErrorTypeTimeout, message)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return NewAPIError(ErrorTypeDelegation, message)
	default:
		return NewAPIError(ErrorTypeInternal, message)
	}
}

// Common error constructors for convenience

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return NewAPIError(ErrorTypeValidation, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *APIError {
	return NewAPIError(ErrorTypeNotFound, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *APIError {
	return NewAPIError(ErrorTypeInternal, message)
}

// NewDelegationError creates a delegation error (downstream agent failure)
func NewDelegationError(message string) *APIError {
	return NewAPIError(ErrorTypeDelegation, message)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string) *APIError {
	return NewAPIError(ErrorTypeConfiguration, message)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(message string) *APIError {
	return NewAPIError(ErrorTypeTimeout, message)
}

// Validation helpers

// ValidateRequired checks if a required field is present
func ValidateRequired(value, fieldName string) *APIError {
	if value == "" {
		return NewValidationError(fmt.Sprintf("Field '%s' is required", fieldName))
	}
	return nil
}

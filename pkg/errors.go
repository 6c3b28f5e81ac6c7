package pkg

import (
	"fmt"
	"net/http"
)

// A custom error type carrying the HTTP status for the API layer.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func NewAppError(code int, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

var (
	ErrServiceNotFound = NewAppError(http.StatusNotFound, "Service not found", "")
	ErrMaxServices     = NewAppError(http.StatusBadRequest, "Maximum services reached", "")
)

// BadRequestError error for invalid input (malformed JSON, unknown type).
func BadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, "")
}

// NotFoundError error for lookups on an absent service id.
func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, "")
}

// StorageError wraps a failure of the durable store. Persistence
// failures are logged and never surfaced to API callers.
func StorageError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "Storage error", err.Error())
}

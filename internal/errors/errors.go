// ABOUTME: Standardized JSON error responses for the portal API.
// ABOUTME: Every handler error goes out as {code, message, status, field?, details?}.

package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body returned by every JSON endpoint.
//
// Usage:
//
//	WriteError(w, http.StatusNotFound, ErrNotFound, "panel not found")
type ErrorResponse struct {
	Code    string `json:"code"`              // Machine-readable error code
	Message string `json:"message"`           // Human-readable error message
	Status  int    `json:"status"`            // HTTP status code
	Field   string `json:"field,omitempty"`   // Query parameter or field that caused the error
	Details string `json:"details,omitempty"` // Additional context
}

// WriteError writes an error response with a code and message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
	})
}

// WriteErrorWithField writes an error response naming the offending parameter.
//
// Example:
//
//	WriteErrorWithField(w, http.StatusBadRequest, ErrInvalidSeed, "seed must be an integer", "seed")
func WriteErrorWithField(w http.ResponseWriter, status int, code, message, field string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
		Field:   field,
	})
}

// WriteErrorWithDetails writes an error response with extra context, usually an underlying error.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
		Details: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}

// Error codes
const (
	// Client errors (4xx)
	ErrInvalidRequest = "invalid_request"
	ErrInvalidSeed    = "invalid_seed"
	ErrNotFound       = "not_found"

	// Server errors (5xx)
	ErrInternal           = "internal_error"
	ErrDatabaseError      = "database_error"
	ErrServiceUnavailable = "service_unavailable"
)

package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is an API failure rendered as the
// {"success": false, "message": ..., "error": ...} envelope.
type Error struct {
	StatusCode int          `json:"-"`
	Code       string       `json:"error"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError points a validation message at one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches field errors.
func (e *Error) WithDetails(details ...FieldError) *Error {
	e.Details = details
	return e
}

// ToJSON renders the failure envelope.
func (e *Error) ToJSON() []byte {
	body := struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Code    string       `json:"error"`
		Details []FieldError `json:"details,omitempty"`
	}{
		Message: e.Message,
		Code:    e.Code,
		Details: e.Details,
	}

	data, _ := json.Marshal(body)
	return data
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newError(status int, code, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{StatusCode: status, Code: code, Message: message}
}

// BadRequest is a 400 for a request the handler cannot act on.
func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, "BAD_REQUEST", message, "Invalid request")
}

// ValidationError is a 400 carrying per-field details.
func ValidationError(message string, details ...FieldError) *Error {
	return newError(http.StatusBadRequest, "VALIDATION_ERROR", message, "Validation failed").WithDetails(details...)
}

// Unauthorized is a 401 for missing, bad or revoked credentials.
func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, "UNAUTHORIZED", message, "Authentication required")
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, "NOT_FOUND", message, "Resource not found")
}

// TooLarge is a 413 for uploads over the configured limit.
func TooLarge(message string) *Error {
	return newError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", message, "Payload too large")
}

func InternalError(message string) *Error {
	return newError(http.StatusInternalServerError, "INTERNAL_ERROR", message, "An unexpected error occurred")
}

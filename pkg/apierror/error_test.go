package apierror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	err := ValidationError("Valid email is required.", FieldError{Field: "email", Message: "Valid email is required."})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.JSONEq(t, `{
		"success": false,
		"message": "Valid email is required.",
		"error": "VALIDATION_ERROR",
		"details": [{"field": "email", "message": "Valid email is required."}]
	}`, string(err.ToJSON()))

	assert.JSONEq(t, `{"success":false,"message":"Token has expired.","error":"UNAUTHORIZED"}`,
		string(Unauthorized("Token has expired.").ToJSON()))
}

func TestFallbackMessages(t *testing.T) {
	assert.Equal(t, "Resource not found", NotFound("").Message)
	assert.Equal(t, "An unexpected error occurred", InternalError("").Message)
	assert.Equal(t, "User not found.", NotFound("User not found.").Message)
}

func TestAsUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("decode: %w", TooLarge("Image is too large."))

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

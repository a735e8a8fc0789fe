package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("Doctor", nil), http.StatusNotFound},
		{"bad request", BadRequest("Date parameter is required", nil), http.StatusBadRequest},
		{"validation", Validation("email", "Enter a valid email address."), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to book appointment: %w", NotFound("Doctor", nil))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Doctor not found", appErr.Message)
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrValidation))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Internal(fmt.Errorf("connection refused"))
	assert.Equal(t, "internal server error: connection refused", err.Error())
	assert.Equal(t, "Patient not found", NotFound("Patient", nil).Error())
}

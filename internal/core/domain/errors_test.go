package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnauthorized", ErrUnauthorized},
		{"ErrForbidden", ErrForbidden},
		{"ErrConflict", ErrConflict},
		{"ErrSourceNotFound", ErrSourceNotFound},
		{"ErrNothingToSave", ErrNothingToSave},
		{"ErrInFlight", ErrInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrUnauthorized_Message(t *testing.T) {
	assert.Equal(t, "Unauthorized. Session expired or invalid. Please login again.", ErrUnauthorized.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{
		"url":      "bad url",
		"interval": "out of range",
	}}

	assert.Equal(t, "validation failed: interval: out of range; url: bad url", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	wrapped := fmt.Errorf("save: %w", err)
	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.True(t, ve.Fields.Has("url"))
	assert.False(t, ve.Fields.Has("filter"))
}

func TestFieldErrors_Empty(t *testing.T) {
	assert.True(t, FieldErrors{}.Empty())
	assert.True(t, FieldErrors(nil).Empty())
	assert.False(t, FieldErrors{"url": "x"}.Empty())
}

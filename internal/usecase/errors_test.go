package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(validator.Violations{"a", "b"})

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "validation error", he.Message)
	assert.Equal(t, []string{"a", "b"}, he.Details)
}

func TestNewStorageError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError(fmt.Errorf("list cart items: %w", cause))

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "db error", he.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAsHTTPError_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewNotFoundError())

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)

	_, ok = AsHTTPError(errors.New("plain"))
	assert.False(t, ok)
}

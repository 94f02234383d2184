package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestCloneMatchesTemplate(t *testing.T) {
	cause := fmt.Errorf("redis: connection refused")
	err := fmt.Errorf("create: %w", Wrap(cause, ErrPersistence.Code, ErrPersistence.Status, "failed to save enrollment"))

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, cause))
}

func TestWithFieldsCopies(t *testing.T) {
	err := WithFields(ErrValidation, "missing required fields", "program", "email")
	assert.Equal(t, []string{"program", "email"}, err.Fields)
	assert.Nil(t, ErrValidation.Fields)
	assert.Equal(t, "missing required fields", err.Message)
}

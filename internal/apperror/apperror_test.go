package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationWrapsCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Generation("failed to parse recipe", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGeneration)
	assert.NotErrorIs(t, err, ErrUpload)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode())
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("recipe not found"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeConflict))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := FromError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode())

	typed := Forbidden("not yours")
	assert.Same(t, typed, FromError(typed))
}

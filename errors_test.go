package llmbridge

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		category  ErrorCategory
		retryable bool
	}{
		{
			name:      "transient error",
			err:       NewTransientError("rate limited", 429, nil),
			category:  ErrorTransient,
			retryable: true,
		},
		{
			name:      "permanent error",
			err:       NewPermanentError("invalid api key", 401, nil),
			category:  ErrorPermanent,
			retryable: false,
		},
		{
			name:      "user input error",
			err:       NewUserInputError("bad request", 400, nil),
			category:  ErrorUserInput,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.retryable, tt.err.Retryable())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewTransientError("wrapped", 500, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "wrapped")
	assert.Contains(t, err.Error(), "underlying")
}

func TestErrorWithoutCause(t *testing.T) {
	err := NewPermanentError("standalone", 403, nil)
	assert.Equal(t, "standalone", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestIsTransient(t *testing.T) {
	t.Run("direct categorized error", func(t *testing.T) {
		assert.True(t, IsTransient(NewTransientError("overloaded", 529, nil)))
		assert.False(t, IsTransient(NewPermanentError("forbidden", 403, nil)))
	})

	t.Run("wrapped categorized error", func(t *testing.T) {
		inner := NewTransientError("rate limited", 429, nil)
		wrapped := fmt.Errorf("chat failed: %w", inner)
		assert.True(t, IsTransient(wrapped))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, IsTransient(errors.New("who knows")))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.False(t, IsTransient(nil))
	})
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, ErrorUserInput, CategoryOf(NewUserInputError("bad", 422, nil)))
	assert.Equal(t, ErrorCategory(""), CategoryOf(errors.New("plain")))
	assert.Equal(t, ErrorCategory(""), CategoryOf(nil))
}

func TestStatusCodeOf(t *testing.T) {
	assert.Equal(t, 429, StatusCodeOf(NewTransientError("rate limited", 429, nil)))
	assert.Equal(t, 0, StatusCodeOf(errors.New("plain")))
}

func TestRetryAfterOf(t *testing.T) {
	err := NewTransientErrorWithRetry("rate limited", 429, 30*time.Second, nil)
	assert.Equal(t, 30*time.Second, RetryAfterOf(err))

	require.True(t, IsTransient(err))
	assert.Equal(t, time.Duration(0), RetryAfterOf(errors.New("plain")))
}

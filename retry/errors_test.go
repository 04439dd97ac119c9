package retry

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/spetersoncode/llmbridge"
	"github.com/stretchr/testify/assert"
)

// statusError simulates an SDK error exposing a status code.
type statusError struct {
	code int
}

func (e *statusError) Error() string   { return fmt.Sprintf("http %d", e.code) }
func (e *statusError) StatusCode() int { return e.code }

func TestIsTransientCategorized(t *testing.T) {
	assert.True(t, IsTransient(llmbridge.NewTransientError("overloaded", 529, nil)))
	assert.False(t, IsTransient(llmbridge.NewPermanentError("forbidden", 403, nil)))
	assert.False(t, IsTransient(llmbridge.NewUserInputError("bad request", 400, nil)))
}

func TestIsTransientStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want bool
	}{
		{"rate limited", 429, true},
		{"internal server error", 500, true},
		{"bad gateway", 502, true},
		{"service unavailable", 503, true},
		{"unauthorized", 401, false},
		{"not found", 404, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(&statusError{code: tt.code}))
		})
	}
}

func TestIsTransientNetworkErrors(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		assert.True(t, IsTransient(&mockTransientError{msg: "i/o timeout"}))
	})

	t.Run("connection refused", func(t *testing.T) {
		assert.True(t, IsTransient(syscall.ECONNREFUSED))
	})

	t.Run("connection reset", func(t *testing.T) {
		assert.True(t, IsTransient(syscall.ECONNRESET))
	})

	t.Run("temporary dns failure", func(t *testing.T) {
		dnsErr := &net.DNSError{Err: "temporary failure", IsTemporary: true}
		assert.True(t, IsTransient(dnsErr))
	})

	t.Run("message pattern fallback", func(t *testing.T) {
		assert.True(t, IsTransient(errors.New("upstream returned 502 bad gateway")))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, IsTransient(errors.New("invalid model name")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, IsTransient(nil))
	})
}

package client

import "github.com/spetersoncode/llmbridge/retry"

// RetryConfig is an alias for retry.Config so callers configuring a Client
// do not need a separate import.
type RetryConfig = retry.Config

// RetryEvent is an alias for retry.Event, carried on client retry events.
type RetryEvent = retry.Event

// DefaultRetryConfig returns the retry configuration used when Config
// leaves RetryConfig nil.
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

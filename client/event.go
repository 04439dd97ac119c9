package client

import (
	"time"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/retry"
)

// EventType identifies the kind of client event.
type EventType string

const (
	// EventRequestStart fires when a chat request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires when a chat request completes successfully.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a chat request fails after all retries.
	EventRequestError EventType = "request_error"

	// EventRetry wraps a retry-layer event (attempt failed, backing off, ...).
	EventRetry EventType = "retry"

	// EventRecordError fires when writing a call record to the usage store
	// fails. Recording is best-effort; the chat result is unaffected.
	EventRecordError EventType = "record_error"
)

// Event represents an observable occurrence in the client.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// Operation is the client operation ("chat" or "chat_stream").
	Operation string

	// Provider and Model identify the request's route.
	Provider ai.Provider
	Model    string

	// Duration is the total request time (for complete/error events).
	Duration time.Duration

	// Usage contains token counts (for complete events).
	Usage *ai.Usage

	// Error contains the failure (for error events).
	Error error

	// RetryEvent contains the underlying retry event (for EventRetry).
	RetryEvent *retry.Event

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event to the configured channel without blocking.
// Events are dropped if the channel is full or not configured.
func (c *Client) emit(event Event) {
	if c.events == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case c.events <- event:
	default:
		// Channel full - don't block the request path
	}
}

// forwardRetryEvents converts retry-layer events into client events until
// the source channel closes.
func (c *Client) forwardRetryEvents(src <-chan retry.Event, operation string, provider ai.Provider, model string) {
	for ev := range src {
		ev := ev
		c.emit(Event{
			Type:       EventRetry,
			Operation:  operation,
			Provider:   provider,
			Model:      model,
			Error:      ev.Error,
			RetryEvent: &ev,
		})
	}
}

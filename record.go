package llmbridge

import (
	"time"

	"github.com/google/uuid"
)

// CallRecord is one logged API call: what was asked of which provider and
// model, how many tokens it consumed, what it cost, and whether it failed.
type CallRecord struct {
	ID uuid.UUID

	// Origin identifies the application that made the call; IDAtOrigin is an
	// optional caller-side correlation key (user ID, job ID, ...).
	Origin     string
	IDAtOrigin string

	// ModelID links to the registry row used for pricing, when known.
	ModelID   *int64
	Provider  Provider
	ModelName string

	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	// EstimatedCost is the USD cost computed at call time from the pricing
	// snapshot below. The snapshot is kept so later registry price changes
	// do not rewrite history.
	EstimatedCost               float64
	DollarsPerMillionInputUsed  float64
	DollarsPerMillionOutputUsed float64

	// ErrorType and ErrorMessage are set for failed calls. ErrorType holds
	// the error category ("transient", "permanent", "user_input").
	ErrorType    string
	ErrorMessage string

	CalledAt time.Time
}

// Failed reports whether the call ended in an error.
func (r CallRecord) Failed() bool {
	return r.ErrorType != "" || r.ErrorMessage != ""
}

// ProviderUsage is the per-provider slice of a usage report.
type ProviderUsage struct {
	Provider Provider
	Calls    int64
	Tokens   int64
	Cost     float64
}

// UsageStats aggregates logged calls over a reporting window.
type UsageStats struct {
	TotalCalls      int64
	TotalTokens     int64
	TotalCost       float64
	AvgCostPerCall  float64
	SuccessRate     float64 // fraction of calls without an error, 0..1
	UniqueProviders int64
	UniqueModels    int64

	// ByProvider breaks the totals down per provider, ordered by provider name.
	ByProvider []ProviderUsage
}

// UsageHint is a curated recommendation mapping a named use case to the
// model that best serves it (e.g. "cheapest_good" -> "openai:gpt-4o-mini").
type UsageHint struct {
	UseCase   string
	Provider  Provider
	ModelName string
	UpdatedAt time.Time
}

// Ref returns the hinted model's "provider:model" reference.
func (h UsageHint) Ref() ModelRef {
	return ModelRef{Provider: h.Provider, Model: h.ModelName}
}

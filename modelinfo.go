package llmbridge

import "time"

// ModelInfo describes a model in the registry: identity, capability flags,
// context limits, and per-million-token pricing in USD. A model with a
// non-nil InactiveFrom timestamp is retired and excluded from lookups.
type ModelInfo struct {
	ID          int64
	Provider    Provider
	ModelName   string
	DisplayName string
	Description string

	MaxContext      int
	MaxOutputTokens int

	SupportsVision            bool
	SupportsFunctionCalling   bool
	SupportsJSONMode          bool
	SupportsParallelToolCalls bool

	// DollarsPerMillionInput and DollarsPerMillionOutput are the token prices
	// in USD per million tokens. Zero means pricing is unknown (or the model
	// is free, as with local Ollama models).
	DollarsPerMillionInput  float64
	DollarsPerMillionOutput float64

	InactiveFrom *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the model's canonical "provider:model" reference.
func (m ModelInfo) Ref() ModelRef {
	return ModelRef{Provider: m.Provider, Model: m.ModelName}
}

// Active reports whether the model is currently active in the registry.
func (m ModelInfo) Active() bool {
	return m.InactiveFrom == nil
}

// HasPricing reports whether the model has known token pricing.
func (m ModelInfo) HasPricing() bool {
	return m.DollarsPerMillionInput > 0 || m.DollarsPerMillionOutput > 0
}

// CostFor computes the estimated USD cost of a request from token counts
// using the model's per-million pricing. Returns 0 for models without
// pricing information.
func (m ModelInfo) CostFor(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1e6*m.DollarsPerMillionInput +
		float64(completionTokens)/1e6*m.DollarsPerMillionOutput
}

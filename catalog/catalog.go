// Package catalog holds the curated model registry: the known models per
// provider with display names, context limits, capability flags, and
// per-million-token pricing. The database is seeded from this data and
// refreshed against it.
package catalog

import (
	ai "github.com/spetersoncode/llmbridge"
)

// Pricing last verified: December 14, 2025.
var models = []ai.ModelInfo{
	// Anthropic
	{
		Provider: ai.ProviderAnthropic, ModelName: "claude-opus-4-5",
		DisplayName: "Claude Opus 4.5", Description: "Most capable Claude model for complex tasks",
		MaxContext: 200000, MaxOutputTokens: 64000,
		SupportsVision: true, SupportsFunctionCalling: true,
		DollarsPerMillionInput: 5.00, DollarsPerMillionOutput: 25.00,
	},
	{
		Provider: ai.ProviderAnthropic, ModelName: "claude-sonnet-4-5",
		DisplayName: "Claude Sonnet 4.5", Description: "Balanced Claude model, recommended default",
		MaxContext: 200000, MaxOutputTokens: 64000,
		SupportsVision: true, SupportsFunctionCalling: true,
		DollarsPerMillionInput: 3.00, DollarsPerMillionOutput: 15.00,
	},
	{
		Provider: ai.ProviderAnthropic, ModelName: "claude-haiku-4-5",
		DisplayName: "Claude Haiku 4.5", Description: "Fast, cost-effective Claude model",
		MaxContext: 200000, MaxOutputTokens: 64000,
		SupportsVision: true, SupportsFunctionCalling: true,
		DollarsPerMillionInput: 1.00, DollarsPerMillionOutput: 5.00,
	},

	// OpenAI
	{
		Provider: ai.ProviderOpenAI, ModelName: "gpt-5.2",
		DisplayName: "GPT-5.2", Description: "Latest flagship GPT model",
		MaxContext: 400000, MaxOutputTokens: 128000,
		SupportsVision: true, SupportsFunctionCalling: true,
		SupportsJSONMode: true, SupportsParallelToolCalls: true,
		DollarsPerMillionInput: 1.75, DollarsPerMillionOutput: 14.00,
	},
	{
		Provider: ai.ProviderOpenAI, ModelName: "gpt-5.1",
		DisplayName: "GPT-5.1", Description: "Previous flagship GPT model",
		MaxContext: 400000, MaxOutputTokens: 128000,
		SupportsVision: true, SupportsFunctionCalling: true,
		SupportsJSONMode: true, SupportsParallelToolCalls: true,
		DollarsPerMillionInput: 1.25, DollarsPerMillionOutput: 10.00,
	},
	{
		Provider: ai.ProviderOpenAI, ModelName: "gpt-5.1-mini",
		DisplayName: "GPT-5.1 Mini", Description: "Small, affordable GPT model",
		MaxContext: 400000, MaxOutputTokens: 128000,
		SupportsVision: true, SupportsFunctionCalling: true,
		SupportsJSONMode: true, SupportsParallelToolCalls: true,
		DollarsPerMillionInput: 0.30, DollarsPerMillionOutput: 1.25,
	},
	{
		Provider: ai.ProviderOpenAI, ModelName: "gpt-4o",
		DisplayName: "GPT-4o", Description: "GPT-4 Omni model",
		MaxContext: 128000, MaxOutputTokens: 16384,
		SupportsVision: true, SupportsFunctionCalling: true,
		SupportsJSONMode: true, SupportsParallelToolCalls: true,
		DollarsPerMillionInput: 2.50, DollarsPerMillionOutput: 10.00,
	},
	{
		Provider: ai.ProviderOpenAI, ModelName: "gpt-4o-mini",
		DisplayName: "GPT-4o Mini", Description: "Small, affordable GPT-4 Omni model",
		MaxContext: 128000, MaxOutputTokens: 16384,
		SupportsVision: true, SupportsFunctionCalling: true,
		SupportsJSONMode: true, SupportsParallelToolCalls: true,
		DollarsPerMillionInput: 0.15, DollarsPerMillionOutput: 0.60,
	},
	{
		Provider: ai.ProviderOpenAI, ModelName: "o3",
		DisplayName: "o3", Description: "Reasoning model for hard problems",
		MaxContext: 200000, MaxOutputTokens: 100000,
		SupportsVision: true, SupportsFunctionCalling: true, SupportsJSONMode: true,
		DollarsPerMillionInput: 2.00, DollarsPerMillionOutput: 16.00,
	},
	{
		Provider: ai.ProviderOpenAI, ModelName: "o4-mini",
		DisplayName: "o4-mini", Description: "Fast, affordable reasoning model",
		MaxContext: 200000, MaxOutputTokens: 100000,
		SupportsVision: true, SupportsFunctionCalling: true, SupportsJSONMode: true,
		DollarsPerMillionInput: 0.50, DollarsPerMillionOutput: 2.00,
	},

	// Google
	{
		Provider: ai.ProviderGoogle, ModelName: "gemini-3.0-pro",
		DisplayName: "Gemini 3.0 Pro", Description: "Google's most capable model",
		MaxContext: 1048576, MaxOutputTokens: 65536,
		SupportsVision: true, SupportsFunctionCalling: true, SupportsJSONMode: true,
		DollarsPerMillionInput: 2.00, DollarsPerMillionOutput: 12.00,
	},
	{
		Provider: ai.ProviderGoogle, ModelName: "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro", Description: "Capable general-purpose Gemini model",
		MaxContext: 1048576, MaxOutputTokens: 65536,
		SupportsVision: true, SupportsFunctionCalling: true, SupportsJSONMode: true,
		DollarsPerMillionInput: 1.25, DollarsPerMillionOutput: 10.00,
	},
	{
		Provider: ai.ProviderGoogle, ModelName: "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash", Description: "Fast and efficient Gemini model",
		MaxContext: 1048576, MaxOutputTokens: 65536,
		SupportsVision: true, SupportsFunctionCalling: true, SupportsJSONMode: true,
		DollarsPerMillionInput: 0.15, DollarsPerMillionOutput: 0.60,
	},
	{
		Provider: ai.ProviderGoogle, ModelName: "gemini-2.0-flash",
		DisplayName: "Gemini 2.0 Flash", Description: "Previous generation fast Gemini model",
		MaxContext: 1048576, MaxOutputTokens: 8192,
		SupportsVision: true, SupportsFunctionCalling: true, SupportsJSONMode: true,
		DollarsPerMillionInput: 0.10, DollarsPerMillionOutput: 0.40,
	},

	// Ollama: local models, no cost. The entries cover the common pulls;
	// anything else installed locally still works, it just has no
	// registry row.
	{
		Provider: ai.ProviderOllama, ModelName: "llama3.2",
		DisplayName: "Llama 3.2", Description: "Local Llama 3.2 via Ollama",
		MaxContext: 131072, MaxOutputTokens: 4096,
		SupportsFunctionCalling: true,
	},
	{
		Provider: ai.ProviderOllama, ModelName: "qwen2.5-coder",
		DisplayName: "Qwen 2.5 Coder", Description: "Local coding model via Ollama",
		MaxContext: 32768, MaxOutputTokens: 4096,
		SupportsFunctionCalling: true,
	},
	{
		Provider: ai.ProviderOllama, ModelName: "mistral",
		DisplayName: "Mistral 7B", Description: "Local Mistral model via Ollama",
		MaxContext: 32768, MaxOutputTokens: 4096,
	},
}

// All returns the full curated catalog. The returned slice is a copy.
func All() []ai.ModelInfo {
	out := make([]ai.ModelInfo, len(models))
	copy(out, models)
	return out
}

// ByProvider returns the curated models for one provider.
func ByProvider(p ai.Provider) []ai.ModelInfo {
	var out []ai.ModelInfo
	for _, m := range models {
		if m.Provider == p {
			out = append(out, m)
		}
	}
	return out
}

// DefaultUsageHints maps well-known use cases to catalog models.
var DefaultUsageHints = map[string]ai.ModelRef{
	"cheapest_good": {Provider: ai.ProviderOpenAI, Model: "gpt-4o-mini"},
	"best_coding":   {Provider: ai.ProviderAnthropic, Model: "claude-sonnet-4-5"},
	"best_reasoning": {
		Provider: ai.ProviderOpenAI, Model: "o3",
	},
	"fastest":    {Provider: ai.ProviderGoogle, Model: "gemini-2.5-flash"},
	"local_free": {Provider: ai.ProviderOllama, Model: "llama3.2"},
}

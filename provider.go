package llmbridge

import (
	"fmt"
	"strings"
)

// Provider identifies an LLM provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderOllama    Provider = "ollama"
)

// ModelRef is a model reference in "provider:model" form. The provider
// prefix is optional when the model name matches a well-known pattern.
type ModelRef struct {
	Provider Provider
	Model    string
}

// String returns the canonical "provider:model" form.
func (r ModelRef) String() string {
	return string(r.Provider) + ":" + r.Model
}

// ParseModelRef parses a model reference. References with an explicit
// "provider:" prefix are split on the first colon; bare model names are
// resolved through InferProvider. Ollama model tags may themselves contain
// colons ("llama3.2:1b"), which is why only the first colon is significant.
func ParseModelRef(ref string) (ModelRef, error) {
	if ref == "" {
		return ModelRef{}, fmt.Errorf("empty model reference")
	}

	if provider, model, ok := strings.Cut(ref, ":"); ok {
		switch Provider(provider) {
		case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderOllama:
			if model == "" {
				return ModelRef{}, fmt.Errorf("model reference %q has no model name", ref)
			}
			return ModelRef{Provider: Provider(provider), Model: model}, nil
		}
		// Not a known provider prefix; the whole string may be a bare model
		// name that happens to contain a colon (e.g. an Ollama tag).
	}

	provider, err := InferProvider(ref)
	if err != nil {
		return ModelRef{}, err
	}
	return ModelRef{Provider: provider, Model: ref}, nil
}

// InferProvider determines the provider from a bare model name using
// well-known naming patterns.
func InferProvider(model string) (Provider, error) {
	switch {
	case strings.HasPrefix(model, "gpt-"),
		strings.HasPrefix(model, "o1-"),
		strings.HasPrefix(model, "o3-"),
		strings.HasPrefix(model, "o4-"):
		return ProviderOpenAI, nil
	case strings.HasPrefix(model, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(model, "gemini-"),
		strings.HasPrefix(model, "models/"):
		return ProviderGoogle, nil
	case strings.HasPrefix(model, "llama"),
		strings.HasPrefix(model, "mistral"),
		strings.HasPrefix(model, "qwen"):
		return ProviderOllama, nil
	}
	return "", fmt.Errorf("cannot determine provider for model %q", model)
}

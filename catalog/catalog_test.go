package catalog

import (
	"testing"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllWellFormed(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := map[ai.ModelRef]bool{}
	for _, m := range all {
		assert.NotEmpty(t, m.Provider, "%s missing provider", m.ModelName)
		assert.NotEmpty(t, m.ModelName)
		assert.NotEmpty(t, m.DisplayName, "%s missing display name", m.ModelName)
		assert.Positive(t, m.MaxContext, "%s missing context limit", m.ModelName)
		assert.False(t, seen[m.Ref()], "duplicate catalog entry %s", m.Ref())
		seen[m.Ref()] = true

		// Hosted models carry pricing; local models are free
		if m.Provider == ai.ProviderOllama {
			assert.False(t, m.HasPricing(), "%s should be free", m.Ref())
		} else {
			assert.True(t, m.HasPricing(), "%s missing pricing", m.Ref())
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].ModelName = "mutated"
	assert.NotEqual(t, "mutated", All()[0].ModelName)
}

func TestByProvider(t *testing.T) {
	anthropic := ByProvider(ai.ProviderAnthropic)
	require.NotEmpty(t, anthropic)
	for _, m := range anthropic {
		assert.Equal(t, ai.ProviderAnthropic, m.Provider)
	}

	assert.Empty(t, ByProvider("nonexistent"))
}

func TestDefaultUsageHintsResolve(t *testing.T) {
	refs := map[ai.ModelRef]bool{}
	for _, m := range All() {
		refs[m.Ref()] = true
	}
	for useCase, ref := range DefaultUsageHints {
		assert.True(t, refs[ref], "hint %q points at %s which is not in the catalog", useCase, ref)
	}
}

package llmbridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModelInfoCostFor(t *testing.T) {
	tests := []struct {
		name             string
		inputPrice       float64
		outputPrice      float64
		promptTokens     int
		completionTokens int
		want             float64
	}{
		{"gpt-4o-mini pricing", 0.15, 0.60, 1_000_000, 1_000_000, 0.75},
		{"half a million tokens", 3.00, 15.00, 500_000, 100_000, 3.00},
		{"zero tokens", 2.50, 10.00, 0, 0, 0},
		{"free local model", 0, 0, 100_000, 50_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ModelInfo{
				DollarsPerMillionInput:  tt.inputPrice,
				DollarsPerMillionOutput: tt.outputPrice,
			}
			assert.InDelta(t, tt.want, m.CostFor(tt.promptTokens, tt.completionTokens), 1e-9)
		})
	}
}

func TestModelInfoActive(t *testing.T) {
	m := ModelInfo{Provider: ProviderOpenAI, ModelName: "gpt-4o"}
	assert.True(t, m.Active())

	now := time.Now()
	m.InactiveFrom = &now
	assert.False(t, m.Active())
}

func TestModelInfoRef(t *testing.T) {
	m := ModelInfo{Provider: ProviderGoogle, ModelName: "gemini-2.5-flash"}
	assert.Equal(t, "google:gemini-2.5-flash", m.Ref().String())
}

func TestUsageTotalTokens(t *testing.T) {
	u := Usage{InputTokens: 120, OutputTokens: 30}
	assert.Equal(t, 150, u.TotalTokens())
}

func TestCallRecordFailed(t *testing.T) {
	assert.False(t, CallRecord{}.Failed())
	assert.True(t, CallRecord{ErrorType: "transient"}.Failed())
	assert.True(t, CallRecord{ErrorMessage: "boom"}.Failed())
}

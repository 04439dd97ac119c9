package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/llmbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

func testModel() *ai.ModelInfo {
	return &ai.ModelInfo{
		Provider:                "openai",
		ModelName:               "gpt-4o-mini",
		DisplayName:             "GPT-4o Mini",
		MaxContext:              128000,
		MaxOutputTokens:         16384,
		SupportsVision:          true,
		SupportsFunctionCalling: true,
		SupportsJSONMode:        true,
		DollarsPerMillionInput:  0.15,
		DollarsPerMillionOutput: 0.60,
	}
}

func TestOpenDSNResolution(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", DefaultSQLitePath},
		{"bare path", "data/llm.db", "data/llm.db"},
		{"sqlite url", "sqlite://llm.db", "llm.db"},
		{"sqlite triple slash", "sqlite:///tmp/llm.db", "tmp/llm.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveSQLitePath(tt.in))
		})
	}
}

func TestOpenPostgresScheme(t *testing.T) {
	// The URL scheme decides the backend even when the database name looks
	// like a SQLite file. sql.Open is lazy, so no server is contacted.
	d, err := Open("postgres://host:5432/billing.db")
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, DialectPostgres, d.Dialect())

	d2, err := Open("postgresql://host:5432/billing.db")
	require.NoError(t, err)
	defer d2.Close()
	assert.Equal(t, DialectPostgres, d2.Dialect())
}

func TestAppliedMigrationsBeforeAndAfter(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	ctx := context.Background()

	// Fresh store: no bookkeeping table yet, but not an error
	applied, err := d.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	require.NoError(t, d.Migrate(ctx))
	applied, err = d.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 3)

	// A broken store surfaces the failure instead of reading as empty
	require.NoError(t, d.Close())
	_, err = d.AppliedMigrations(ctx)
	assert.Error(t, err)
}

func TestMigrateIdempotent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	applied, err := d.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 3)

	require.NoError(t, d.Migrate(ctx))
	again, err := d.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, applied, again)

	pending, err := d.PendingMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAddGetModel(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	id, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)
	assert.Positive(t, id)

	m, err := d.GetModel(ctx, "openai", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "GPT-4o Mini", m.DisplayName)
	assert.Equal(t, 128000, m.MaxContext)
	assert.True(t, m.SupportsVision)
	assert.InDelta(t, 0.15, m.DollarsPerMillionInput, 1e-9)
	assert.True(t, m.Active())
	assert.False(t, m.CreatedAt.IsZero())
}

func TestGetModelNotFound(t *testing.T) {
	d := openTestDB(t)

	_, err := d.GetModel(context.Background(), "openai", "no-such-model")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddModelDuplicate(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)
	_, err = d.AddModel(ctx, testModel())
	assert.Error(t, err) // UNIQUE(provider, model_name)
}

func TestListModels(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)
	_, err = d.AddModel(ctx, &ai.ModelInfo{Provider: "anthropic", ModelName: "claude-sonnet-4-5"})
	require.NoError(t, err)

	all, err := d.ListModels(ctx, ModelFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by provider, then model name
	assert.Equal(t, ai.Provider("anthropic"), all[0].Provider)

	openaiOnly, err := d.ListModels(ctx, ModelFilter{Provider: "openai"})
	require.NoError(t, err)
	require.Len(t, openaiOnly, 1)
	assert.Equal(t, "gpt-4o-mini", openaiOnly[0].ModelName)
}

func TestDeactivateModel(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)

	require.NoError(t, d.DeactivateModel(ctx, "openai", "gpt-4o-mini"))

	_, err = d.GetModel(ctx, "openai", "gpt-4o-mini")
	assert.ErrorIs(t, err, ErrNotFound)

	active, err := d.ListModels(ctx, ModelFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := d.ListModels(ctx, ModelFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active())

	// Deactivating again finds no active row
	assert.ErrorIs(t, d.DeactivateModel(ctx, "openai", "gpt-4o-mini"), ErrNotFound)
}

func TestUpdateModel(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	id, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)

	newPrice := 0.25
	newName := "GPT-4o Mini (updated)"
	require.NoError(t, d.UpdateModel(ctx, id, ModelUpdate{
		DisplayName:            &newName,
		DollarsPerMillionInput: &newPrice,
	}))

	m, err := d.GetModel(ctx, "openai", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, newName, m.DisplayName)
	assert.InDelta(t, 0.25, m.DollarsPerMillionInput, 1e-9)
	// Untouched fields keep their values
	assert.InDelta(t, 0.60, m.DollarsPerMillionOutput, 1e-9)

	// Empty update is a no-op
	require.NoError(t, d.UpdateModel(ctx, id, ModelUpdate{}))

	assert.ErrorIs(t, d.UpdateModel(ctx, 9999, ModelUpdate{DisplayName: &newName}), ErrNotFound)
}

func TestRecordCallAndRecentCalls(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	modelID, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)

	rec := &ai.CallRecord{
		Origin:                      "testapp",
		IDAtOrigin:                  "user-1",
		ModelID:                     &modelID,
		Provider:                    "openai",
		ModelName:                   "gpt-4o-mini",
		PromptTokens:                1000,
		CompletionTokens:            500,
		TotalTokens:                 1500,
		EstimatedCost:               0.00045,
		DollarsPerMillionInputUsed:  0.15,
		DollarsPerMillionOutputUsed: 0.60,
	}
	require.NoError(t, d.RecordCall(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CalledAt.IsZero())

	calls, err := d.RecentCalls(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	got := calls[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "testapp", got.Origin)
	require.NotNil(t, got.ModelID)
	assert.Equal(t, modelID, *got.ModelID)
	assert.Equal(t, 1500, got.TotalTokens)
	assert.InDelta(t, 0.00045, got.EstimatedCost, 1e-9)
	assert.False(t, got.Failed())
}

func TestRecordCallWithError(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	rec := &ai.CallRecord{
		Origin:       "testapp",
		IDAtOrigin:   "user-1",
		Provider:     "anthropic",
		ModelName:    "claude-sonnet-4-5",
		ErrorType:    string(ai.ErrorTransient),
		ErrorMessage: "overloaded",
	}
	require.NoError(t, d.RecordCall(ctx, rec))

	calls, err := d.RecentCalls(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Failed())
	assert.Equal(t, "transient", calls[0].ErrorType)
}

func TestUsageStats(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	records := []ai.CallRecord{
		{Origin: "app1", IDAtOrigin: "u1", Provider: "openai", ModelName: "gpt-4o-mini",
			PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, EstimatedCost: 0.001},
		{Origin: "app1", IDAtOrigin: "u1", Provider: "openai", ModelName: "gpt-4o",
			PromptTokens: 200, CompletionTokens: 100, TotalTokens: 300, EstimatedCost: 0.002},
		{Origin: "app1", IDAtOrigin: "u2", Provider: "anthropic", ModelName: "claude-sonnet-4-5",
			ErrorType: "permanent", ErrorMessage: "bad key"},
		{Origin: "app2", IDAtOrigin: "u3", Provider: "google", ModelName: "gemini-2.0-flash",
			PromptTokens: 50, CompletionTokens: 25, TotalTokens: 75, EstimatedCost: 0.0005},
	}
	for i := range records {
		require.NoError(t, d.RecordCall(ctx, &records[i]))
	}

	stats, err := d.UsageStats(ctx, "", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalCalls)
	assert.Equal(t, int64(525), stats.TotalTokens)
	assert.InDelta(t, 0.0035, stats.TotalCost, 1e-9)
	assert.InDelta(t, 0.75, stats.SuccessRate, 1e-9)
	assert.Equal(t, int64(3), stats.UniqueProviders)
	assert.Equal(t, int64(4), stats.UniqueModels)
	require.Len(t, stats.ByProvider, 3)
	// Ordered by provider name
	assert.Equal(t, ai.Provider("anthropic"), stats.ByProvider[0].Provider)
	assert.Equal(t, int64(2), stats.ByProvider[2].Calls) // openai

	app1, err := d.UsageStats(ctx, "app1", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(3), app1.TotalCalls)
}

func TestUsageStatsWindow(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	old := &ai.CallRecord{
		Origin: "app", IDAtOrigin: "u", Provider: "openai", ModelName: "gpt-4o",
		TotalTokens: 100, EstimatedCost: 0.001,
		CalledAt: time.Now().UTC().AddDate(0, 0, -60),
	}
	recent := &ai.CallRecord{
		Origin: "app", IDAtOrigin: "u", Provider: "openai", ModelName: "gpt-4o",
		TotalTokens: 200, EstimatedCost: 0.002,
	}
	require.NoError(t, d.RecordCall(ctx, old))
	require.NoError(t, d.RecordCall(ctx, recent))

	stats, err := d.UsageStats(ctx, "", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCalls)
	assert.Equal(t, int64(200), stats.TotalTokens)
}

func TestPurgeCallsBefore(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	old := &ai.CallRecord{
		Origin: "app", IDAtOrigin: "u", Provider: "openai", ModelName: "gpt-4o",
		CalledAt: time.Now().UTC().AddDate(0, 0, -90),
	}
	recent := &ai.CallRecord{
		Origin: "app", IDAtOrigin: "u", Provider: "openai", ModelName: "gpt-4o",
	}
	require.NoError(t, d.RecordCall(ctx, old))
	require.NoError(t, d.RecordCall(ctx, recent))

	n, err := d.PurgeCallsBefore(ctx, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	calls, err := d.RecentCalls(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestUsageHints(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.SetUsageHint(ctx, "cheapest_good", "openai", "gpt-4o-mini"))

	hint, err := d.UsageHint(ctx, "cheapest_good")
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", hint.Ref().String())

	// Upsert replaces
	require.NoError(t, d.SetUsageHint(ctx, "cheapest_good", "google", "gemini-2.0-flash"))
	hint, err = d.UsageHint(ctx, "cheapest_good")
	require.NoError(t, err)
	assert.Equal(t, ai.Provider("google"), hint.Provider)

	require.NoError(t, d.SetUsageHint(ctx, "best_coding", "anthropic", "claude-sonnet-4-5"))
	hints, err := d.ListUsageHints(ctx)
	require.NoError(t, err)
	require.Len(t, hints, 2)
	assert.Equal(t, "best_coding", hints[0].UseCase)

	_, err = d.UsageHint(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedModels(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	seed := []ai.ModelInfo{
		{Provider: "openai", ModelName: "gpt-4o"},
		{Provider: "anthropic", ModelName: "claude-sonnet-4-5"},
	}

	n, err := d.SeedModels(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Non-empty registry is left alone
	n, err = d.SeedModels(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReset(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.AddModel(ctx, testModel())
	require.NoError(t, err)

	require.NoError(t, d.Reset(ctx))

	models, err := d.ListModels(ctx, ModelFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, models)

	// Schema is usable again after reset
	_, err = d.AddModel(ctx, testModel())
	require.NoError(t, err)
}

func TestHealthAndStats(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.Health(context.Background()))
	assert.Equal(t, DialectSQLite, d.Dialect())
	assert.Equal(t, 1, d.Stats().MaxOpenConnections)
}

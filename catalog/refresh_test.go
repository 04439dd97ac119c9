package catalog

import (
	"context"
	"path/filepath"
	"testing"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

func TestPreviewEmptyRegistry(t *testing.T) {
	d := openTestDB(t)
	r := &Refresher{DB: d}

	diff, err := r.Preview(context.Background())
	require.NoError(t, err)
	assert.Len(t, diff.New, len(All()))
	assert.Empty(t, diff.Updated)
	assert.Empty(t, diff.Deactivated)
	assert.False(t, diff.Empty())
}

func TestApplyThenPreviewIsClean(t *testing.T) {
	d := openTestDB(t)
	r := &Refresher{DB: d}
	ctx := context.Background()

	summary, err := r.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(All()), summary.Added)
	assert.Zero(t, summary.Updated)
	assert.Zero(t, summary.Deactivated)

	diff, err := r.Preview(ctx)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

func TestApplyUpdatesChangedPricing(t *testing.T) {
	d := openTestDB(t)
	r := &Refresher{DB: d}
	ctx := context.Background()

	_, err := r.Apply(ctx)
	require.NoError(t, err)

	// Drift one registry row away from the catalog
	m, err := d.GetModel(ctx, ai.ProviderOpenAI, "gpt-4o-mini")
	require.NoError(t, err)
	stale := 99.0
	require.NoError(t, d.UpdateModel(ctx, m.ID, db.ModelUpdate{DollarsPerMillionInput: &stale}))

	diff, err := r.Preview(ctx)
	require.NoError(t, err)
	require.Len(t, diff.Updated, 1)
	assert.Equal(t, "openai:gpt-4o-mini", diff.Updated[0].Ref.String())
	assert.NotEmpty(t, diff.Updated[0].Fields)

	summary, err := r.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	m, err = d.GetModel(ctx, ai.ProviderOpenAI, "gpt-4o-mini")
	require.NoError(t, err)
	assert.InDelta(t, 0.15, m.DollarsPerMillionInput, 1e-9)
}

func TestApplyReactivatesCatalogModel(t *testing.T) {
	d := openTestDB(t)
	r := &Refresher{DB: d}
	ctx := context.Background()

	_, err := r.Apply(ctx)
	require.NoError(t, err)

	// Operator retires a model that is still in the catalog
	require.NoError(t, d.DeactivateModel(ctx, ai.ProviderOpenAI, "gpt-4o-mini"))

	diff, err := r.Preview(ctx)
	require.NoError(t, err)
	assert.Empty(t, diff.New, "a deactivated catalog model is an update, not an insert")
	assert.Empty(t, diff.Deactivated)
	require.Len(t, diff.Updated, 1)
	assert.Equal(t, "openai:gpt-4o-mini", diff.Updated[0].Ref.String())
	assert.Contains(t, diff.Updated[0].Fields, "reactivate")

	summary, err := r.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Zero(t, summary.Added)

	m, err := d.GetModel(ctx, ai.ProviderOpenAI, "gpt-4o-mini")
	require.NoError(t, err)
	assert.True(t, m.Active())

	diff, err = r.Preview(ctx)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

func TestApplyDeactivatesRemovedModels(t *testing.T) {
	d := openTestDB(t)
	r := &Refresher{DB: d}
	ctx := context.Background()

	_, err := r.Apply(ctx)
	require.NoError(t, err)

	// A registry model the catalog does not know about
	_, err = d.AddModel(ctx, &ai.ModelInfo{
		Provider: ai.ProviderOpenAI, ModelName: "gpt-3.5-turbo",
		DisplayName: "GPT-3.5 Turbo", MaxContext: 16385,
		DollarsPerMillionInput: 0.50, DollarsPerMillionOutput: 1.50,
	})
	require.NoError(t, err)

	diff, err := r.Preview(ctx)
	require.NoError(t, err)
	require.Len(t, diff.Deactivated, 1)
	assert.Equal(t, "gpt-3.5-turbo", diff.Deactivated[0].ModelName)

	summary, err := r.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deactivated)

	_, err = d.GetModel(ctx, ai.ProviderOpenAI, "gpt-3.5-turbo")
	assert.ErrorIs(t, err, db.ErrNotFound)

	// The retired row stays retired; later refreshes are no-ops
	diff, err = r.Preview(ctx)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

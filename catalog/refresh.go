package catalog

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/db"
)

// Change describes one registry row the refresh would rewrite.
type Change struct {
	Ref ai.ModelRef
	// Fields lists human-readable "field: old -> new" descriptions.
	Fields []string

	update db.ModelUpdate
	id     int64
}

// Diff is the result of comparing the curated catalog against the
// database registry.
type Diff struct {
	// New models exist in the catalog but not in the registry.
	New []ai.ModelInfo
	// Updated models exist in both but differ in pricing, limits, or
	// naming, or were deactivated and need reactivating.
	Updated []Change
	// Deactivated models are active in the registry but gone from the catalog.
	Deactivated []ai.ModelInfo
}

// Empty reports whether the registry already matches the catalog.
func (d *Diff) Empty() bool {
	return len(d.New) == 0 && len(d.Updated) == 0 && len(d.Deactivated) == 0
}

// Summary counts what an Apply did.
type Summary struct {
	Added       int
	Updated     int
	Deactivated int
}

// Refresher reconciles the database registry with the curated catalog.
type Refresher struct {
	DB *db.DB
}

// Preview computes the catalog/registry diff without touching the store.
// Deactivated rows are included so a model returning to the catalog is
// reactivated rather than inserted again.
func (r *Refresher) Preview(ctx context.Context) (*Diff, error) {
	registry, err := r.DB.ListModels(ctx, db.ModelFilter{IncludeInactive: true})
	if err != nil {
		return nil, err
	}

	byRef := make(map[ai.ModelRef]ai.ModelInfo, len(registry))
	for _, m := range registry {
		byRef[m.Ref()] = m
	}

	diff := &Diff{}
	inCatalog := make(map[ai.ModelRef]bool, len(models))

	for _, want := range All() {
		inCatalog[want.Ref()] = true
		have, ok := byRef[want.Ref()]
		if !ok {
			diff.New = append(diff.New, want)
			continue
		}
		if change, changed := compareModel(have, want); changed {
			diff.Updated = append(diff.Updated, change)
		}
	}

	for _, m := range registry {
		if !inCatalog[m.Ref()] && m.Active() {
			diff.Deactivated = append(diff.Deactivated, m)
		}
	}

	return diff, nil
}

// Apply reconciles the registry with the catalog: adds missing models,
// updates changed ones, deactivates models absent from the catalog.
func (r *Refresher) Apply(ctx context.Context) (*Summary, error) {
	diff, err := r.Preview(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}

	for i := range diff.New {
		if _, err := r.DB.AddModel(ctx, &diff.New[i]); err != nil {
			return summary, fmt.Errorf("add %s: %w", diff.New[i].Ref(), err)
		}
		summary.Added++
	}

	for _, change := range diff.Updated {
		if err := r.DB.UpdateModel(ctx, change.id, change.update); err != nil {
			return summary, fmt.Errorf("update %s: %w", change.Ref, err)
		}
		summary.Updated++
	}

	for _, m := range diff.Deactivated {
		if err := r.DB.DeactivateModel(ctx, m.Provider, m.ModelName); err != nil {
			return summary, fmt.Errorf("deactivate %s: %w", m.Ref(), err)
		}
		summary.Deactivated++
	}

	return summary, nil
}

func compareModel(have, want ai.ModelInfo) (Change, bool) {
	change := Change{Ref: want.Ref(), id: have.ID}

	if !have.Active() {
		change.update.ClearInactiveFrom = true
		change.Fields = append(change.Fields, "reactivate")
	}
	if have.DisplayName != want.DisplayName {
		v := want.DisplayName
		change.update.DisplayName = &v
		change.Fields = append(change.Fields,
			fmt.Sprintf("display_name: %q -> %q", have.DisplayName, want.DisplayName))
	}
	if have.Description != want.Description {
		v := want.Description
		change.update.Description = &v
		change.Fields = append(change.Fields, "description")
	}
	if have.MaxContext != want.MaxContext {
		v := want.MaxContext
		change.update.MaxContext = &v
		change.Fields = append(change.Fields,
			fmt.Sprintf("max_context: %d -> %d", have.MaxContext, want.MaxContext))
	}
	if have.MaxOutputTokens != want.MaxOutputTokens {
		v := want.MaxOutputTokens
		change.update.MaxOutputTokens = &v
		change.Fields = append(change.Fields,
			fmt.Sprintf("max_output_tokens: %d -> %d", have.MaxOutputTokens, want.MaxOutputTokens))
	}
	if have.DollarsPerMillionInput != want.DollarsPerMillionInput {
		v := want.DollarsPerMillionInput
		change.update.DollarsPerMillionInput = &v
		change.Fields = append(change.Fields,
			fmt.Sprintf("input price: %.4g -> %.4g", have.DollarsPerMillionInput, want.DollarsPerMillionInput))
	}
	if have.DollarsPerMillionOutput != want.DollarsPerMillionOutput {
		v := want.DollarsPerMillionOutput
		change.update.DollarsPerMillionOutput = &v
		change.Fields = append(change.Fields,
			fmt.Sprintf("output price: %.4g -> %.4g", have.DollarsPerMillionOutput, want.DollarsPerMillionOutput))
	}

	return change, len(change.Fields) > 0
}

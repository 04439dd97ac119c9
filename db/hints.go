package db

import (
	"context"
	"database/sql"
	"errors"

	ai "github.com/spetersoncode/llmbridge"
)

// SetUsageHint creates or replaces the model recommendation for a use case.
func (d *DB) SetUsageHint(ctx context.Context, useCase string, provider ai.Provider, modelName string) error {
	_, err := d.exec(ctx, `
		INSERT INTO {{schema}}.usage_hints (use_case, provider, model_name, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (use_case) DO UPDATE SET
			provider = excluded.provider,
			model_name = excluded.model_name,
			updated_at = NOW()`,
		useCase, string(provider), modelName)
	return err
}

// UsageHint returns the recommendation for a use case, or ErrNotFound.
func (d *DB) UsageHint(ctx context.Context, useCase string) (*ai.UsageHint, error) {
	var hint ai.UsageHint
	var provider string
	err := d.queryRow(ctx, `
		SELECT use_case, provider, model_name, updated_at
		FROM {{schema}}.usage_hints
		WHERE use_case = $1`,
		useCase,
	).Scan(&hint.UseCase, &provider, &hint.ModelName, &hint.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	hint.Provider = ai.Provider(provider)
	return &hint, nil
}

// ListUsageHints returns all recommendations ordered by use case.
func (d *DB) ListUsageHints(ctx context.Context) ([]ai.UsageHint, error) {
	rows, err := d.query(ctx, `
		SELECT use_case, provider, model_name, updated_at
		FROM {{schema}}.usage_hints
		ORDER BY use_case`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hints []ai.UsageHint
	for rows.Next() {
		var hint ai.UsageHint
		var provider string
		if err := rows.Scan(&hint.UseCase, &provider, &hint.ModelName, &hint.UpdatedAt); err != nil {
			return nil, err
		}
		hint.Provider = ai.Provider(provider)
		hints = append(hints, hint)
	}
	return hints, rows.Err()
}

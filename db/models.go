package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	ai "github.com/spetersoncode/llmbridge"
)

const modelColumns = `id, provider, model_name, display_name, description,
	max_context, max_output_tokens,
	supports_vision, supports_function_calling, supports_json_mode, supports_parallel_tool_calls,
	dollars_per_million_tokens_input, dollars_per_million_tokens_output,
	inactive_from, created_at, updated_at`

// AddModel inserts a model into the registry and returns its ID.
func (d *DB) AddModel(ctx context.Context, m *ai.ModelInfo) (int64, error) {
	return d.insertReturningID(ctx, `
		INSERT INTO {{schema}}.models (
			provider, model_name, display_name, description,
			max_context, max_output_tokens,
			supports_vision, supports_function_calling, supports_json_mode, supports_parallel_tool_calls,
			dollars_per_million_tokens_input, dollars_per_million_tokens_output,
			inactive_from
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		string(m.Provider), m.ModelName, nullString(m.DisplayName), nullString(m.Description),
		nullInt(m.MaxContext), nullInt(m.MaxOutputTokens),
		m.SupportsVision, m.SupportsFunctionCalling, m.SupportsJSONMode, m.SupportsParallelToolCalls,
		nullFloat(m.DollarsPerMillionInput), nullFloat(m.DollarsPerMillionOutput),
		nullTime(m.InactiveFrom),
	)
}

// GetModel returns the active model with the given provider and name.
// Returns ErrNotFound if the model is absent or deactivated.
func (d *DB) GetModel(ctx context.Context, provider ai.Provider, modelName string) (*ai.ModelInfo, error) {
	row := d.queryRow(ctx, `
		SELECT `+modelColumns+`
		FROM {{schema}}.models
		WHERE provider = $1 AND model_name = $2 AND inactive_from IS NULL`,
		string(provider), modelName)

	m, err := scanModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ModelFilter narrows a ListModels call.
type ModelFilter struct {
	// Provider restricts results to one provider when non-empty.
	Provider ai.Provider
	// IncludeInactive also returns deactivated models.
	IncludeInactive bool
}

// ListModels returns registry models ordered by provider then name.
func (d *DB) ListModels(ctx context.Context, filter ModelFilter) ([]ai.ModelInfo, error) {
	var conds []string
	var args []any

	if filter.Provider != "" {
		args = append(args, string(filter.Provider))
		conds = append(conds, fmt.Sprintf("provider = $%d", len(args)))
	}
	if !filter.IncludeInactive {
		conds = append(conds, "inactive_from IS NULL")
	}

	query := `SELECT ` + modelColumns + ` FROM {{schema}}.models`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY provider, model_name"

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []ai.ModelInfo
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

// ModelUpdate is a partial registry update; nil fields are left unchanged.
type ModelUpdate struct {
	DisplayName             *string
	Description             *string
	MaxContext              *int
	MaxOutputTokens         *int
	DollarsPerMillionInput  *float64
	DollarsPerMillionOutput *float64
	InactiveFrom            *time.Time
	ClearInactiveFrom       bool
}

// UpdateModel applies a partial update to a registry row.
func (d *DB) UpdateModel(ctx context.Context, id int64, update ModelUpdate) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.DisplayName != nil {
		add("display_name", *update.DisplayName)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.MaxContext != nil {
		add("max_context", *update.MaxContext)
	}
	if update.MaxOutputTokens != nil {
		add("max_output_tokens", *update.MaxOutputTokens)
	}
	if update.DollarsPerMillionInput != nil {
		add("dollars_per_million_tokens_input", *update.DollarsPerMillionInput)
	}
	if update.DollarsPerMillionOutput != nil {
		add("dollars_per_million_tokens_output", *update.DollarsPerMillionOutput)
	}
	if update.InactiveFrom != nil {
		add("inactive_from", *update.InactiveFrom)
	} else if update.ClearInactiveFrom {
		sets = append(sets, "inactive_from = NULL")
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE {{schema}}.models SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := d.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateModel retires a model from active lookups without deleting its
// row; call history keeps pointing at it.
func (d *DB) DeactivateModel(ctx context.Context, provider ai.Provider, modelName string) error {
	res, err := d.exec(ctx, `
		UPDATE {{schema}}.models
		SET inactive_from = NOW(), updated_at = NOW()
		WHERE provider = $1 AND model_name = $2 AND inactive_from IS NULL`,
		string(provider), modelName)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedModels inserts the given models when the registry is empty. Returns
// the number of models inserted (0 when the registry already has rows).
func (d *DB) SeedModels(ctx context.Context, models []ai.ModelInfo) (int, error) {
	var count int64
	if err := d.queryRow(ctx, `SELECT COUNT(*) FROM {{schema}}.models`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for i := range models {
		if _, err := d.AddModel(ctx, &models[i]); err != nil {
			return inserted, fmt.Errorf("seed %s:%s: %w", models[i].Provider, models[i].ModelName, err)
		}
		inserted++
	}
	return inserted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanModel(s scanner) (*ai.ModelInfo, error) {
	var m ai.ModelInfo
	var provider string
	var displayName, description sql.NullString
	var maxContext, maxOutput sql.NullInt64
	var priceIn, priceOut sql.NullFloat64
	var inactiveFrom sql.NullTime

	err := s.Scan(
		&m.ID, &provider, &m.ModelName, &displayName, &description,
		&maxContext, &maxOutput,
		&m.SupportsVision, &m.SupportsFunctionCalling, &m.SupportsJSONMode, &m.SupportsParallelToolCalls,
		&priceIn, &priceOut,
		&inactiveFrom, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Provider = ai.Provider(provider)
	m.DisplayName = displayName.String
	m.Description = description.String
	m.MaxContext = int(maxContext.Int64)
	m.MaxOutputTokens = int(maxOutput.Int64)
	m.DollarsPerMillionInput = priceIn.Float64
	m.DollarsPerMillionOutput = priceOut.Float64
	if inactiveFrom.Valid {
		t := inactiveFrom.Time
		m.InactiveFrom = &t
	}
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

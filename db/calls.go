package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/llmbridge"
)

// RecordCall logs one API call. A zero ID gets a fresh UUID and a zero
// CalledAt gets the current time; the record is returned unmodified
// otherwise.
func (d *DB) RecordCall(ctx context.Context, rec *ai.CallRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CalledAt.IsZero() {
		rec.CalledAt = time.Now().UTC()
	}

	_, err := d.exec(ctx, `
		INSERT INTO {{schema}}.api_calls (
			id, origin, id_at_origin, model_id, provider, model_name,
			prompt_tokens, completion_tokens, total_tokens,
			estimated_cost, dollars_per_million_tokens_input_used, dollars_per_million_tokens_output_used,
			error_type, error_message, called_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID.String(), rec.Origin, rec.IDAtOrigin, nullInt64Ptr(rec.ModelID),
		string(rec.Provider), rec.ModelName,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		rec.EstimatedCost, nullFloat(rec.DollarsPerMillionInputUsed), nullFloat(rec.DollarsPerMillionOutputUsed),
		nullString(rec.ErrorType), nullString(rec.ErrorMessage), rec.CalledAt,
	)
	return err
}

// UsageStats aggregates calls made in the last days days, optionally
// restricted to one origin.
func (d *DB) UsageStats(ctx context.Context, origin string, days int) (*ai.UsageStats, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	where := `WHERE called_at >= $1`
	args := []any{cutoff}
	if origin != "" {
		where += ` AND origin = $2`
		args = append(args, origin)
	}

	var stats ai.UsageStats
	var okCalls int64
	err := d.queryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_tokens), 0),
			COALESCE(SUM(estimated_cost), 0),
			COALESCE(SUM(CASE WHEN error_type IS NULL THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT provider),
			COUNT(DISTINCT model_name)
		FROM {{schema}}.api_calls `+where,
		args...,
	).Scan(&stats.TotalCalls, &stats.TotalTokens, &stats.TotalCost,
		&okCalls, &stats.UniqueProviders, &stats.UniqueModels)
	if err != nil {
		return nil, err
	}

	if stats.TotalCalls > 0 {
		stats.AvgCostPerCall = stats.TotalCost / float64(stats.TotalCalls)
		stats.SuccessRate = float64(okCalls) / float64(stats.TotalCalls)
	}

	rows, err := d.query(ctx, `
		SELECT provider,
			COUNT(*),
			COALESCE(SUM(total_tokens), 0),
			COALESCE(SUM(estimated_cost), 0)
		FROM {{schema}}.api_calls `+where+`
		GROUP BY provider
		ORDER BY provider`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pu ai.ProviderUsage
		var provider string
		if err := rows.Scan(&provider, &pu.Calls, &pu.Tokens, &pu.Cost); err != nil {
			return nil, err
		}
		pu.Provider = ai.Provider(provider)
		stats.ByProvider = append(stats.ByProvider, pu)
	}
	return &stats, rows.Err()
}

// RecentCalls returns logged calls newest first.
func (d *DB) RecentCalls(ctx context.Context, limit, offset int) ([]ai.CallRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.query(ctx, `
		SELECT id, origin, id_at_origin, model_id, provider, model_name,
			prompt_tokens, completion_tokens, total_tokens,
			estimated_cost, dollars_per_million_tokens_input_used, dollars_per_million_tokens_output_used,
			error_type, error_message, called_at
		FROM {{schema}}.api_calls
		ORDER BY called_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ai.CallRecord
	for rows.Next() {
		var rec ai.CallRecord
		var id, provider string
		var modelID sql.NullInt64
		var priceIn, priceOut sql.NullFloat64
		var errType, errMsg sql.NullString

		err := rows.Scan(
			&id, &rec.Origin, &rec.IDAtOrigin, &modelID, &provider, &rec.ModelName,
			&rec.PromptTokens, &rec.CompletionTokens, &rec.TotalTokens,
			&rec.EstimatedCost, &priceIn, &priceOut,
			&errType, &errMsg, &rec.CalledAt,
		)
		if err != nil {
			return nil, err
		}

		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		if modelID.Valid {
			v := modelID.Int64
			rec.ModelID = &v
		}
		rec.Provider = ai.Provider(provider)
		rec.DollarsPerMillionInputUsed = priceIn.Float64
		rec.DollarsPerMillionOutputUsed = priceOut.Float64
		rec.ErrorType = errType.String
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PurgeCallsBefore deletes calls older than t and returns how many rows
// were removed.
func (d *DB) PurgeCallsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := d.exec(ctx, `DELETE FROM {{schema}}.api_calls WHERE called_at < $1`, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullInt64Ptr(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

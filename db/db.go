// Package db is the persistence layer: a dual-backend store for the model
// registry, call accounting, and usage hints. Queries are written once in
// PostgreSQL dialect and rewritten for SQLite, so both backends share the
// same code paths.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

// DB is a handle to the llmbridge store.
type DB struct {
	sql     *sql.DB
	dialect Dialect
	tr      translation
}

// Open connects to the store described by connString:
//
//   - postgres:// or postgresql:// opens PostgreSQL
//   - sqlite:// URLs, bare *.db paths, or an empty string open SQLite
//     (empty defaults to llmbridge.db in the working directory)
//   - anything else is assumed to be a PostgreSQL connection string
func Open(connString string) (*DB, error) {
	switch {
	// URL scheme wins over the .db suffix: a PostgreSQL database named
	// "billing.db" must not be mistaken for a SQLite file.
	case strings.HasPrefix(connString, "postgres://"),
		strings.HasPrefix(connString, "postgresql://"):
		return openPostgres(connString)
	case connString == "",
		strings.HasPrefix(connString, "sqlite://"),
		strings.HasSuffix(connString, ".db"):
		return openSQLite(connString)
	default:
		return openPostgres(connString)
	}
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Dialect returns the active backend dialect.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Health verifies the store is reachable.
func (d *DB) Health(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// Stats returns connection pool diagnostics.
func (d *DB) Stats() sql.DBStats {
	return d.sql.Stats()
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.sql.ExecContext(ctx, d.tr.Translate(query), args...)
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.sql.QueryContext(ctx, d.tr.Translate(query), args...)
}

func (d *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sql.QueryRowContext(ctx, d.tr.Translate(query), args...)
}

// insertReturningID runs an INSERT ... RETURNING id statement. PostgreSQL
// evaluates the clause directly; SQLite gets the clause stripped and the
// ID from last_insert_rowid.
func (d *DB) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if d.dialect == DialectPostgres {
		var id int64
		if err := d.queryRow(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := d.sql.ExecContext(ctx, stripReturning(d.tr.Translate(query)), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Reset drops all llmbridge tables and reapplies migrations. Destructive.
func (d *DB) Reset(ctx context.Context) error {
	if d.dialect == DialectPostgres {
		if _, err := d.sql.ExecContext(ctx,
			fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", d.tr.schema)); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	} else {
		for _, table := range []string{"api_calls", "usage_hints", "models", "schema_migrations"} {
			if _, err := d.sql.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
	}
	return d.Migrate(ctx)
}

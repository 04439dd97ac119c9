package db

import (
	"context"
	"embed"
	"fmt"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies all pending migrations in filename order, each inside
// its own transaction. Applied filenames are recorded in schema_migrations
// so re-running is a no-op.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.bootstrap(ctx); err != nil {
		return err
	}

	applied, err := d.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[name] = true
	}

	names, err := migrationNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		if appliedSet[name] {
			continue
		}
		if err := d.applyMigration(ctx, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

// AppliedMigrations returns the filenames recorded in schema_migrations,
// sorted. A missing bookkeeping table reads as no migrations applied;
// other failures are returned as errors.
func (d *DB) AppliedMigrations(ctx context.Context) ([]string, error) {
	exists, err := d.migrationsTableExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe schema_migrations: %w", err)
	}
	if !exists {
		return nil, nil
	}

	rows, err := d.query(ctx, `SELECT filename FROM {{schema}}.schema_migrations ORDER BY filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// PendingMigrations returns embedded migration filenames not yet applied.
func (d *DB) PendingMigrations(ctx context.Context) ([]string, error) {
	applied, err := d.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[name] = true
	}

	names, err := migrationNames()
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, name := range names {
		if !appliedSet[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// migrationsTableExists probes the catalog for the bookkeeping table so
// a never-migrated store is not conflated with genuine query failures.
func (d *DB) migrationsTableExists(ctx context.Context) (bool, error) {
	var count int64
	var err error
	if d.dialect == DialectPostgres {
		err = d.sql.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = 'schema_migrations'`,
			d.tr.schema).Scan(&count)
	} else {
		err = d.sql.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM sqlite_master
			WHERE type = 'table' AND name = 'schema_migrations'`).Scan(&count)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// bootstrap creates the schema (PostgreSQL) and the bookkeeping table.
func (d *DB) bootstrap(ctx context.Context) error {
	if d.dialect == DialectPostgres {
		if _, err := d.sql.ExecContext(ctx,
			fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", d.tr.schema)); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	_, err := d.exec(ctx, `
		CREATE TABLE IF NOT EXISTS {{schema}}.schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (d *DB) applyMigration(ctx context.Context, name string) error {
	script, err := migrationFS.ReadFile("migrations/" + name)
	if err != nil {
		return err
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(string(script)) {
		if _, err := tx.ExecContext(ctx, d.tr.Translate(stmt)); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		d.tr.Translate(`INSERT INTO {{schema}}.schema_migrations (filename) VALUES ($1)`),
		name); err != nil {
		return err
	}

	return tx.Commit()
}

func migrationNames() ([]string, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

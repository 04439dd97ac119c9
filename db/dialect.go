package db

import (
	"regexp"
	"strings"
)

// Dialect identifies the SQL backend a query is rewritten for.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DefaultSchema is the PostgreSQL schema all tables live in.
const DefaultSchema = "llmbridge"

var placeholderRe = regexp.MustCompile(`\$\d+`)

// translation rewrites canonical queries for one backend. Queries are
// written once in PostgreSQL dialect with a {{schema}}. table prefix;
// SQLite gets them through an ordered token substitution.
type translation struct {
	dialect Dialect
	schema  string
}

// Translate rewrites a canonical query for the target dialect.
func (t translation) Translate(query string) string {
	if t.dialect == DialectPostgres {
		return strings.ReplaceAll(query, "{{schema}}.", t.schema+".")
	}

	// SQLite: drop the schema prefix first, then rewrite tokens. Order
	// matters: TIMESTAMPTZ must go before any TIMESTAMP handling, and
	// NOW() before the TRUE/FALSE literals touch nothing inside it.
	q := strings.ReplaceAll(query, "{{schema}}.", "")
	q = placeholderRe.ReplaceAllString(q, "?")
	q = strings.ReplaceAll(q, "NOW()", "(datetime('now'))")
	q = strings.ReplaceAll(q, "now()", "(datetime('now'))")
	q = strings.ReplaceAll(q, "BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT")
	q = strings.ReplaceAll(q, "TIMESTAMPTZ", "TIMESTAMP")
	q = strings.ReplaceAll(q, "JSONB", "TEXT")
	q = strings.ReplaceAll(q, "UUID", "TEXT")
	q = strings.ReplaceAll(q, "NUMERIC", "REAL")
	q = strings.ReplaceAll(q, " TRUE", " 1")
	q = strings.ReplaceAll(q, " FALSE", " 0")
	q = strings.ReplaceAll(q, " true", " 1")
	q = strings.ReplaceAll(q, " false", " 0")
	return q
}

// stripReturning removes a trailing RETURNING clause for backends that
// cannot evaluate it.
func stripReturning(query string) string {
	idx := strings.Index(strings.ToUpper(query), "RETURNING")
	if idx < 0 {
		return query
	}
	return strings.TrimSpace(query[:idx])
}

// splitStatements breaks a migration file into individual statements.
// Statements end with a semicolon at end of line.
func splitStatements(script string) []string {
	var stmts []string
	var current strings.Builder

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DefaultSQLitePath is used when no connection string is given.
const DefaultSQLitePath = "llmbridge.db"

const sqliteBusyTimeoutMs = 5000

// resolveSQLitePath extracts a filesystem path from a connection string.
// Accepts sqlite:///path/to/file.db, sqlite://file.db, bare paths, and "".
func resolveSQLitePath(connString string) string {
	switch {
	case connString == "":
		return DefaultSQLitePath
	case strings.HasPrefix(connString, "sqlite:///"):
		return strings.TrimPrefix(connString, "sqlite:///")
	case strings.HasPrefix(connString, "sqlite://"):
		return strings.TrimPrefix(connString, "sqlite://")
	default:
		return connString
	}
}

func openSQLite(connString string) (*DB, error) {
	path := resolveSQLitePath(connString)

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_timefmt=sqlite",
		path, sqliteBusyTimeoutMs,
	)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single writer; SQLite serializes writes anyway and a pool of one
	// avoids SQLITE_BUSY under concurrent use.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	return &DB{
		sql:     conn,
		dialect: DialectSQLite,
		tr:      translation{dialect: DialectSQLite},
	}, nil
}

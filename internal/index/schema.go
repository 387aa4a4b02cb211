// Package index keeps a SQLite full-text index of the loaded docs site and
// watches a directory source for changes.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDSN is a private in-memory database shared by the pool.
const DefaultDSN = "file:sspmdocs?mode=memory&cache=shared"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id    INTEGER PRIMARY KEY,
	kind  TEXT NOT NULL,
	key   TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	body  TEXT NOT NULL DEFAULT '',
	href  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_kind_key ON entries(kind, key);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", withParams(dsn, "_busy_timeout=5000"))
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// An in-memory database lives only as long as one of its connections.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func withParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

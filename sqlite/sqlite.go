// Package sqlite records crawl history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB is a handle on the history database. All access goes through one
// connection; SQLite serializes writers anyway.
type DB struct {
	db   *sql.DB
	path string
}

func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects, applies connection pragmas and creates missing tables.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", db.path, err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.configure(conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("open %s: %w", db.path, err)
	}
	db.db = conn
	return nil
}

func (db *DB) configure(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return err
	}
	pragmas := []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"}
	if db.path != MemoryPath {
		// WAL needs a file.
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close is safe to call on a DB that never opened.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// One row per crawl; crawl_pages holds both written pages (failed = 0) and
// failures (failed = 1), each in discovered order.
const schema = `
CREATE TABLE IF NOT EXISTS crawls (
	id               TEXT PRIMARY KEY,
	seed_url         TEXT NOT NULL,
	output_root      TEXT NOT NULL,
	page_limit       INTEGER NOT NULL,
	destination_root TEXT NOT NULL DEFAULT '',
	discovered       INTEGER NOT NULL DEFAULT 0,
	pages_written    INTEGER NOT NULL DEFAULT 0,
	pages_failed     INTEGER NOT NULL DEFAULT 0,
	pages_skipped    INTEGER NOT NULL DEFAULT 0,
	started_at       TEXT NOT NULL,
	finished_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS crawl_pages (
	crawl_id      TEXT NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
	failed        INTEGER NOT NULL DEFAULT 0,
	position      INTEGER NOT NULL,
	url           TEXT NOT NULL,
	path          TEXT NOT NULL DEFAULT '',
	bytes         INTEGER NOT NULL DEFAULT 0,
	error_code    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_crawls_seed_started ON crawls(seed_url, started_at);
CREATE INDEX IF NOT EXISTS idx_crawl_pages_crawl_id ON crawl_pages(crawl_id, failed, position);
`

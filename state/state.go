// Package state persists the last-processed snapshot version per
// source, so scheduled runs can skip work when nothing changed
// upstream. SQLite-backed; one row per source.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// Well-known source keys.
const (
	SourceUSC  = "last_usc_release"
	SourceECFR = "last_ecfr_version"
)

const schema = `
CREATE TABLE IF NOT EXISTS ingest_state (
	source     TEXT PRIMARY KEY,
	version    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// Store wraps the state database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database at path, applying
// the production pragmas via Exec so they work across drivers.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("state: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("state: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("state: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("state: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory store for testing. MaxOpenConns(1)
// keeps every query on the same connection (each connection to
// ":memory:" is a separate database). Closed via t.Cleanup.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("state.OpenMemory: %v", err)
	}
	s.db.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the stored version for source, or "" when the source has
// never been recorded.
func (s *Store) Get(ctx context.Context, source string) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM ingest_state WHERE source = ?`, source).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("state: get %s: %w", source, err)
	}
	return version, nil
}

// Set records the version for source, overwriting any previous value.
func (s *Store) Set(ctx context.Context, source, version string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_state (source, version, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			version = excluded.version,
			updated_at = excluded.updated_at`,
		source, version, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("state: set %s: %w", source, err)
	}
	return nil
}

// Entry is one recorded source version.
type Entry struct {
	Source    string `json:"source"`
	Version   string `json:"version"`
	UpdatedAt string `json:"updated_at"`
}

// All returns every recorded entry, ordered by source.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, version, updated_at FROM ingest_state ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("state: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Source, &e.Version, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("state: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

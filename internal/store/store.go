// Package store persists preferences and the last fetched activity
// snapshot per user in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Preference keys.
const (
	KeyUsername = "lastfm_username"
	KeyTheme    = "theme"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is a SQLite-backed key-value preference table plus a snapshot
// cache keyed by username.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath. ":memory:" opens
// a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool size to 1 for in-memory databases to ensure consistency
	// For file-based databases, this still works well for our use case
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000", // Wait up to 10 seconds on lock
		"PRAGMA synchronous = NORMAL", // Balance between safety and performance
		"PRAGMA journal_mode = WAL",   // Write-Ahead Logging for concurrent access
		"PRAGMA temp_store = MEMORY",  // Use memory for temp tables
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS prefs (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE TABLE IF NOT EXISTS snapshots (
			username TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetPref returns the value stored under key. ok is false when the key
// is not set.
func (s *Store) GetPref(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read pref %s: %w", key, err)
	}
	return value, true, nil
}

// SetPref stores value under key, replacing any previous value.
func (s *Store) SetPref(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO prefs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write pref %s: %w", key, err)
	}
	return nil
}

// DeletePref removes key. Deleting a missing key is not an error.
func (s *Store) DeletePref(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete pref %s: %w", key, err)
	}
	return nil
}

// Prefs returns every stored preference.
func (s *Store) Prefs(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM prefs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query prefs: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan pref: %w", err)
		}
		prefs[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prefs: %w", err)
	}
	return prefs, nil
}

// SaveSnapshot stores v, encoded as JSON, as the latest snapshot for
// username.
func (s *Store) SaveSnapshot(ctx context.Context, username string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (username, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`

	if _, err := s.db.ExecContext(ctx, query, username, string(payload), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", username, err)
	}
	return nil
}

// LoadSnapshot decodes the latest snapshot for username into v and
// returns when it was saved. Returns ErrNotFound if none exists.
func (s *Store) LoadSnapshot(ctx context.Context, username string, v interface{}) (time.Time, error) {
	var payload string
	var fetchedAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM snapshots WHERE username = ?", username,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load snapshot for %s: %w", username, err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode snapshot for %s: %w", username, err)
	}
	return time.Unix(fetchedAt, 0), nil
}

// Cleanup removes snapshots older than maxAge to prevent unbounded growth
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Clear removes every preference and snapshot.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"prefs", "snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

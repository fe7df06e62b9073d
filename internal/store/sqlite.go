package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteBackend keeps the blob in a single row of a key-value table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath, key string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening habits db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteBackend{db: db, key: key}, nil
}

func (s *SQLiteBackend) Read(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteBackend) Write(ctx context.Context, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		s.key, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}
	return nil
}

// UpdatedAt returns when the row was last written, or the zero time if it
// doesn't exist.
func (s *SQLiteBackend) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts string
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM kv WHERE key = ?", s.key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, ts)
}

// Close closes the database.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// Package history records generations performed by the intermediary.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one generation attempt.
type Record struct {
	ID          int64
	Payload     string
	Instruction string
	Text        string
	Error       string
	Duration    time.Duration
	CreatedAt   time.Time
}

// OK reports whether the attempt produced text.
func (r Record) OK() bool {
	return r.Error == ""
}

// Store is a SQLite-backed generation log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payload TEXT NOT NULL,
		instruction TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add inserts r and returns its id. A zero CreatedAt is set to now.
func (s *Store) Add(ctx context.Context, r Record) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (payload, instruction, text, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Payload, r.Instruction, r.Text, r.Error, r.Duration.Milliseconds(), r.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to insert generation: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload, instruction, text, error, duration_ms, created_at
		FROM generations
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r           Record
			durationMS  int64
			createdAtMS int64
		)
		if err := rows.Scan(&r.ID, &r.Payload, &r.Instruction, &r.Text, &r.Error, &durationMS, &createdAtMS); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdAtMS)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store records every post the bot publishes so that threads can be
// inspected and deletions audited after the fact.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	parent_id  TEXT,
	posted_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_id);
`

// Open creates a new database connection and ensures the schema exists.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite doesn't handle concurrent writes well
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: sqlDB}, nil
}

// Record is one row of posting history.
type Record struct {
	ID       string
	Text     string
	ParentID string
	PostedAt time.Time
	Deleted  bool
}

// RecordPost inserts a published post. ParentID is empty for the first
// post of a thread and for standalone posts.
func (s *Store) RecordPost(ctx context.Context, rec Record) error {
	parent := sql.NullString{String: rec.ParentID, Valid: rec.ParentID != ""}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, text, parent_id) VALUES (?, ?, ?)",
		rec.ID, rec.Text, parent,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// MarkDeleted stamps a post as deleted. Unknown IDs are a no-op.
func (s *Store) MarkDeleted(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE posts SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}
	return nil
}

// ListPosts returns the most recent posts, newest first.
func (s *Store) ListPosts(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, parent_id, posted_at, deleted_at
		FROM posts ORDER BY posted_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var parent sql.NullString
		var deleted sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.Text, &parent, &rec.PostedAt, &deleted); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		rec.ParentID = parent.String
		rec.Deleted = deleted.Valid
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

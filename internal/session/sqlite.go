package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite stores session tokens in a local SQLite database, giving a single
// instance durable mappings across restarts. Expiry is enforced lazily: a row
// older than the TTL is treated as absent on read and deleted; every write
// refreshes the row's timestamp.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    conversation_key TEXT PRIMARY KEY,
    session_token TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);`

// NewSQLite creates or opens a session database at the given path.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLite{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var (
		token     string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT session_token, updated_at FROM sessions WHERE conversation_key = ?
	`, key).Scan(&token, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Op: "get", Key: key, Err: err}
	}

	if s.ttl > 0 && s.now().Unix()-updatedAt > int64(s.ttl.Seconds()) {
		// Expired: drop the stale row so the next exchange starts fresh.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE conversation_key = ?`, key)
		return "", nil
	}
	return token, nil
}

func (s *SQLite) Set(ctx context.Context, key, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (conversation_key, session_token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(conversation_key) DO UPDATE SET
		    session_token = excluded.session_token,
		    updated_at = excluded.updated_at
	`, key, token, s.now().Unix())
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

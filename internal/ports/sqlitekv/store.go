package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"memorygarden/internal/ports"

	_ "modernc.org/sqlite"
)

// Store is a ports.KeyValueStore on a local SQLite file, for deployments that keep
// player progress outside Nakama's database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path, enables WAL and creates the kv table.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitekv: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitekv: enable WAL: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		user_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, key)
	)`)
	if err != nil {
		return fmt.Errorf("sqlitekv: migrate: %w", err)
	}
	return nil
}

// Close closes the DB.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns the stored value for userID/key.
func (s *Store) Read(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlitekv: read %s: %w", key, err)
	}
	return value, true, nil
}

// Write upserts value for userID/key.
func (s *Store) Write(ctx context.Context, userID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, value, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlitekv: write %s: %w", key, err)
	}
	return nil
}

// Delete removes userID/key if present.
func (s *Store) Delete(ctx context.Context, userID, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE user_id = ? AND key = ?`, userID, key); err != nil {
		return fmt.Errorf("sqlitekv: delete %s: %w", key, err)
	}
	return nil
}

var _ ports.KeyValueStore = (*Store)(nil)

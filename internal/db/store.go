package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EntityTables lists every table an entity-count check runs against, in
// the order the smoke runner reports them.
var EntityTables = []string{
	"documents",
	"reading_sessions",
	"notes",
	"goals",
	"settings",
	"timer_sessions",
	"focus_sessions",
	"user_goals",
	"user_streaks",
	"user_reflections",
	"notification_logs",
}

// Store wraps the application database handle with the few queries the
// provisioning and smoke layers need.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Store around an open handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Count returns the row count for one of the known entity tables. Table
// names never come from user input; the allowlist keeps it that way.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	known := false
	for _, t := range EntityTables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown entity table %q", table)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// GetSetting reads one settings row by key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("setting %q not found", key)
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a settings row.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = $3
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Ping verifies the handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Setting is one default settings row.
type Setting struct {
	Key   string
	Value string
}

// DefaultSettings are seeded on provisioning. Keys already present in the
// settings table are never touched, so user changes survive re-runs.
var DefaultSettings = []Setting{
	{"default_session_duration", "25"},
	{"sprint_duration", "5"},
	{"break_duration", "5"},
	{"theme", "light"},
	{"auto_save_notes", "true"},
	{"pomodoro_work_duration", "25"},
	{"pomodoro_break_duration", "5"},
	{"pomodoro_long_break_duration", "15"},
	{"sprint_page_goal", "2"},
	{"focus_mode_auto_enable", "false"},
	{"notifications_enabled", "true"},
	{"daily_reading_goal", "30"},
	{"weekly_reading_goal", "210"},
	{"streak_notification_enabled", "true"},
	{"end_session_reflection_prompt", "true"},
}

// SeedDefaultSettings inserts each default setting key only if no row with
// that key exists.
func SeedDefaultSettings(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	seeded := 0
	for _, s := range DefaultSettings {
		res, err := db.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
			s.Key, s.Value)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			seeded++
		}
	}

	if seeded > 0 {
		logger.Info("seeded default settings", "inserted", seeded)
	} else {
		logger.Info("default settings already present")
	}
	return nil
}

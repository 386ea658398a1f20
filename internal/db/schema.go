package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates every application table. All statements use
// IF NOT EXISTS so the sequence is safe to repeat; ordering matters only
// for the foreign keys.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id SERIAL PRIMARY KEY,
		filename VARCHAR(255) NOT NULL,
		filepath VARCHAR(500) NOT NULL,
		title VARCHAR(255),
		total_pages INTEGER,
		current_page INTEGER DEFAULT 1,
		total_reading_time DOUBLE PRECISION DEFAULT 0.0,
		estimated_reading_time DOUBLE PRECISION,
		reading_speed DOUBLE PRECISION,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reading_sessions (
		id SERIAL PRIMARY KEY,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP,
		duration DOUBLE PRECISION,
		pages_read INTEGER DEFAULT 0,
		start_page INTEGER,
		end_page INTEGER,
		session_type VARCHAR(50),
		created_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id SERIAL PRIMARY KEY,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		page_number INTEGER NOT NULL,
		highlighted_text TEXT,
		note_content TEXT,
		topic VARCHAR(255),
		x_position DOUBLE PRECISION,
		y_position DOUBLE PRECISION,
		width DOUBLE PRECISION,
		height DOUBLE PRECISION,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id SERIAL PRIMARY KEY,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		goal_type VARCHAR(50),
		target_value DOUBLE PRECISION,
		current_value DOUBLE PRECISION DEFAULT 0.0,
		target_date TIMESTAMP,
		is_completed BOOLEAN DEFAULT false,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id SERIAL PRIMARY KEY,
		key VARCHAR(100) UNIQUE NOT NULL,
		value VARCHAR(500),
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS timer_sessions (
		id SERIAL PRIMARY KEY,
		reading_session_id INTEGER REFERENCES reading_sessions(id),
		timer_mode VARCHAR(50) NOT NULL,
		planned_duration INTEGER,
		actual_duration DOUBLE PRECISION,
		interruptions INTEGER DEFAULT 0,
		completed BOOLEAN DEFAULT false,
		break_taken BOOLEAN DEFAULT false,
		break_duration INTEGER,
		focus_rating INTEGER,
		notes TEXT,
		created_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS focus_sessions (
		id SERIAL PRIMARY KEY,
		reading_session_id INTEGER REFERENCES reading_sessions(id),
		focus_mode_enabled BOOLEAN DEFAULT false,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP,
		distractions_blocked INTEGER DEFAULT 0,
		settings_used JSONB,
		effectiveness_rating INTEGER,
		created_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_goals (
		id SERIAL PRIMARY KEY,
		goal_type VARCHAR(50) NOT NULL,
		metric_type VARCHAR(50) NOT NULL,
		target_value DOUBLE PRECISION NOT NULL,
		current_value DOUBLE PRECISION DEFAULT 0.0,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		is_active BOOLEAN DEFAULT true,
		is_achieved BOOLEAN DEFAULT false,
		achievement_date TIMESTAMP,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_streaks (
		id SERIAL PRIMARY KEY,
		streak_type VARCHAR(50) DEFAULT 'daily',
		current_streak INTEGER DEFAULT 0,
		longest_streak INTEGER DEFAULT 0,
		last_activity_date TIMESTAMP,
		streak_start_date TIMESTAMP,
		is_active BOOLEAN DEFAULT true,
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_reflections (
		id SERIAL PRIMARY KEY,
		reading_session_id INTEGER REFERENCES reading_sessions(id),
		focus_rating INTEGER,
		energy_level INTEGER,
		comprehension_rating INTEGER,
		distraction_notes TEXT,
		key_insights TEXT,
		session_mood VARCHAR(50),
		would_repeat_setup BOOLEAN,
		improvement_notes TEXT,
		created_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notification_logs (
		id SERIAL PRIMARY KEY,
		notification_type VARCHAR(50) NOT NULL,
		title VARCHAR(255),
		message TEXT,
		recipient VARCHAR(100) DEFAULT 'user',
		sent_at TIMESTAMP DEFAULT now(),
		was_clicked BOOLEAN DEFAULT false,
		action_taken VARCHAR(100)
	)`,
}

// EnsureSchema creates all application tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

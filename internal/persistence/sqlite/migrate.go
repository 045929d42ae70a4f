package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the versioned schema steps in application order. Steps are
// append-only; editing an applied step would desynchronize existing databases.
var migrations = []string{
	// 1: directory and catalog tables.
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL COLLATE NOCASE UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'Employee',
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);`,
	// 2: meetings and participants.
	`CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		agenda TEXT NOT NULL DEFAULT '',
		organizer_id TEXT NOT NULL REFERENCES users(id),
		room_id TEXT NOT NULL REFERENCES rooms(id),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Scheduled',
		created_at TEXT NOT NULL,
		CHECK (end_time > start_time)
	);
	CREATE INDEX IF NOT EXISTS idx_meetings_room_time ON meetings(room_id, start_time);
	CREATE TABLE IF NOT EXISTS participants (
		meeting_id TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		PRIMARY KEY (meeting_id, user_id)
	);`,
	// 3: notifications.
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		type TEXT NOT NULL DEFAULT 'Info',
		message TEXT NOT NULL DEFAULT '',
		meeting_id TEXT,
		created_at TEXT NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read);`,
}

// Migrate brings the database schema up to the current version. Applied
// versions are tracked in schema_migrations and skipped on subsequent runs.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for i, step := range migrations {
		version := i + 1
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			var applied int
			if err := tx.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&applied); err != nil {
				return err
			}
			if applied > 0 {
				return nil
			}
			if _, err := tx.Exec(step); err != nil {
				return fmt.Errorf("migration %d failed: %w", version, err)
			}
			_, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS feedback (
				id TEXT PRIMARY KEY,
				overall_rating TEXT NOT NULL CHECK (overall_rating IN ('GOOD', 'NOT_SATISFIED')),
				comment TEXT,
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
			)`,
			`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback (created_at)`,
			`CREATE TABLE IF NOT EXISTS staff (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				position TEXT NOT NULL DEFAULT '',
				image_url TEXT NOT NULL DEFAULT '',
				contact_info TEXT NOT NULL DEFAULT '',
				active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
			)`,
			`CREATE TABLE IF NOT EXISTS categories (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS dissatisfaction_reasons (
				id TEXT PRIMARY KEY,
				description TEXT NOT NULL,
				category_id TEXT REFERENCES categories (id),
				active INTEGER NOT NULL DEFAULT 1
			)`,
			`CREATE TABLE IF NOT EXISTS feedback_staff (
				id TEXT PRIMARY KEY,
				feedback_id TEXT NOT NULL REFERENCES feedback (id),
				staff_id TEXT NOT NULL REFERENCES staff (id),
				emotion TEXT,
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
				updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
				UNIQUE (feedback_id, staff_id)
			)`,
			`CREATE TABLE IF NOT EXISTS feedback_reasons (
				id TEXT PRIMARY KEY,
				feedback_id TEXT NOT NULL REFERENCES feedback (id),
				reason_id TEXT NOT NULL REFERENCES dissatisfaction_reasons (id),
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
			)`,
			`CREATE INDEX IF NOT EXISTS idx_feedback_reasons_feedback ON feedback_reasons (feedback_id, reason_id)`,
		},
	},
}

// Migrate applies every schema version not yet recorded in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version).Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply migration %d: %w", m.version, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

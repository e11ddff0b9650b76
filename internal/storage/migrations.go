package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/patchline/passforge/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 1

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS mutation_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					timestamp DATETIME NOT NULL,
					pattern_type TEXT NOT NULL,
					original_features TEXT NOT NULL,
					transformed_features TEXT NOT NULL,
					summary TEXT NOT NULL,
					settings TEXT NOT NULL,
					strength_improvement REAL NOT NULL,
					success_score REAL NOT NULL
				)`,
				`CREATE INDEX idx_mutation_history_pattern ON mutation_history(pattern_type)`,
				`CREATE INDEX idx_mutation_history_timestamp ON mutation_history(timestamp)`,

				`CREATE TABLE IF NOT EXISTS category_rates (
					key TEXT PRIMARY KEY,
					rate REAL NOT NULL,
					count INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS preferences (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					confidence REAL NOT NULL,
					count INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS feedback_events (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					timestamp DATETIME NOT NULL,
					session_id TEXT,
					original_strength TEXT NOT NULL,
					transformed_strength TEXT NOT NULL,
					pattern_type TEXT NOT NULL,
					settings TEXT NOT NULL,
					rating INTEGER NOT NULL,
					accepted BOOLEAN NOT NULL
				)`,
				`CREATE INDEX idx_feedback_events_pattern ON feedback_events(pattern_type)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	// A version beyond what this binary knows means the file was written
	// by a newer build or has a mangled user_version.
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d", common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

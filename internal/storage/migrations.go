package storage

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Veraticus/sprout/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration is one schema version: an ordered list of statements applied together.
// Every statement must be safe to run again so that re-running a step that was
// interrupted part-way leaves the schema unchanged.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial ledger schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS user_profile (
				id TEXT PRIMARY KEY NOT NULL CHECK(id = 'profile'),
				name TEXT NOT NULL,
				email TEXT NOT NULL DEFAULT '',
				currency TEXT NOT NULL DEFAULT 'USD',
				created_at TEXT NOT NULL DEFAULT (datetime('now'))
			)`,

			`CREATE TABLE IF NOT EXISTS categories (
				id TEXT PRIMARY KEY NOT NULL,
				name TEXT NOT NULL,
				icon TEXT NOT NULL DEFAULT '📁',
				color TEXT NOT NULL DEFAULT '#66BB6A',
				type TEXT NOT NULL CHECK(type IN ('income','expense')),
				is_default INTEGER NOT NULL DEFAULT 0
			)`,

			`CREATE TABLE IF NOT EXISTS payment_methods (
				id TEXT PRIMARY KEY NOT NULL,
				name TEXT NOT NULL,
				icon TEXT NOT NULL DEFAULT '💳',
				is_default INTEGER NOT NULL DEFAULT 0
			)`,

			`CREATE TABLE IF NOT EXISTS transactions (
				id TEXT PRIMARY KEY NOT NULL,
				type TEXT NOT NULL CHECK(type IN ('income','expense')),
				amount REAL NOT NULL CHECK(amount > 0),
				category_id TEXT NOT NULL,
				date TEXT NOT NULL CHECK(date GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'),
				note TEXT NOT NULL DEFAULT '',
				payment_method_id TEXT NOT NULL,
				created_at TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at TEXT NOT NULL DEFAULT (datetime('now')),
				FOREIGN KEY (category_id) REFERENCES categories(id),
				FOREIGN KEY (payment_method_id) REFERENCES payment_methods(id)
			)`,

			`CREATE TABLE IF NOT EXISTS budgets (
				id TEXT PRIMARY KEY NOT NULL,
				month INTEGER NOT NULL CHECK(month >= 1 AND month <= 12),
				year INTEGER NOT NULL,
				category_id TEXT NOT NULL,
				limit_amount REAL NOT NULL CHECK(limit_amount > 0),
				created_at TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at TEXT NOT NULL DEFAULT (datetime('now')),
				FOREIGN KEY (category_id) REFERENCES categories(id),
				UNIQUE(month, year, category_id)
			)`,

			`CREATE TABLE IF NOT EXISTS goals (
				id TEXT PRIMARY KEY NOT NULL,
				title TEXT NOT NULL,
				target_amount REAL NOT NULL CHECK(target_amount > 0),
				current_amount REAL NOT NULL DEFAULT 0 CHECK(current_amount >= 0),
				deadline TEXT NOT NULL DEFAULT '',
				icon TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at TEXT NOT NULL DEFAULT (datetime('now'))
			)`,

			`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type)`,
			`CREATE INDEX IF NOT EXISTS idx_budgets_month_year ON budgets(month, year)`,
		},
	},
	{
		Version:     2,
		Description: "Allow at most one default payment method",
		Statements: []string{
			// Keep the alphabetically first default if several were flagged.
			`UPDATE payment_methods SET is_default = 0
				WHERE is_default = 1 AND id NOT IN (
					SELECT id FROM payment_methods WHERE is_default = 1 ORDER BY name, id LIMIT 1
				)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_methods_single_default
				ON payment_methods(is_default) WHERE is_default = 1`,
		},
	},
}

// Migrate applies all pending database migrations. It is safe to call on every start.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	return s.applyMigrations(ctx, migrations, ExpectedSchemaVersion)
}

// SchemaVersion returns the version recorded in the version table, 0 for a fresh database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var exists int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'
	`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	if err := s.q.QueryRowContext(ctx, `SELECT version FROM schema_version WHERE id = 1`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStorage) applyMigrations(ctx context.Context, steps []Migration, expected int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// The version table holds exactly one row, pinned by its id.
	for _, query := range []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			version INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT OR IGNORE INTO schema_version (id, version) VALUES (1, 0)`,
	} {
		if _, err := s.q.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("%w: failed to prepare version table: %w", common.ErrSchema, err)
		}
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrSchema, err)
	}

	ordered := slices.Clone(steps)
	slices.SortFunc(ordered, func(a, b Migration) int { return a.Version - b.Version })

	for _, migration := range ordered {
		if migration.Version <= currentVersion {
			continue
		}

		err := s.withTx(ctx, func(q queryable) error {
			for _, query := range migration.Statements {
				if _, err := q.ExecContext(ctx, query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			if _, err := q.ExecContext(ctx, `UPDATE schema_version SET version = ? WHERE id = 1`, migration.Version); err != nil {
				return fmt.Errorf("failed to update schema version: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: migration %d failed: %w", common.ErrSchema, migration.Version, err)
		}

		s.metrics.MigrationApplied()
		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to verify final schema version: %w", common.ErrSchema, err)
	}
	if finalVersion != expected {
		return fmt.Errorf("%w: database schema version mismatch: expected %d, got %d", common.ErrSchema, expected, finalVersion)
	}

	return nil
}

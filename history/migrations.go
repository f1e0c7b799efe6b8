package history

import (
	"database/sql"
	"fmt"
)

// Migration represents a schema migration
type Migration struct {
	Version     int
	Description string
	Up          string
	Down        string
}

// Migrations returns all schema migrations in order
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create history table",
			Up: `
				CREATE TABLE IF NOT EXISTS history (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					filename TEXT NOT NULL,
					template_name TEXT NOT NULL DEFAULT '',
					slides TEXT NOT NULL,
					generated_at INTEGER NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id, generated_at);
			`,
			Down: `
				DROP INDEX IF EXISTS idx_history_user;
				DROP TABLE IF EXISTS history;
			`,
		},
		{
			Version:     2,
			Description: "Create shares table",
			Up: `
				CREATE TABLE IF NOT EXISTS shares (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					theme TEXT NOT NULL,
					author TEXT NOT NULL DEFAULT '',
					slides TEXT NOT NULL,
					slide_count INTEGER NOT NULL,
					views INTEGER NOT NULL DEFAULT 0,
					created_at INTEGER NOT NULL
				);
			`,
			Down: `
				DROP TABLE IF EXISTS shares;
			`,
		},
	}
}

func createMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// runMigrations applies every pending migration, each in its own transaction.
func runMigrations(db *sql.DB) error {
	for _, m := range Migrations() {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration status for version %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, description) VALUES (?, ?)", m.Version, m.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// Rollback reverts an applied migration.
func (s *Store) Rollback(version int) error {
	var target *Migration
	for _, m := range Migrations() {
		if m.Version == version {
			m := m
			target = &m
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(target.Down); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to rollback migration %d: %w", version, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = ?", version); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	return tx.Commit()
}

package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_provisional_flag_to_change_log",
		Up:      migrationV2,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(d *sql.DB) error {
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err = d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := d.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(d); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the initial tables. Fresh installs never run this;
// InitSchema applies SchemaSQL directly.
func migrationV1(d *sql.DB) error {
	_, err := d.Exec(SchemaSQL)
	return err
}

// migrationV2 backfills the provisional column on databases created before
// write-ahead rollback logging.
func migrationV2(d *sql.DB) error {
	var count int
	err := d.QueryRow("SELECT COUNT(*) FROM pragma_table_info('change_log') WHERE name = 'provisional'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = d.Exec("ALTER TABLE change_log ADD COLUMN provisional INTEGER NOT NULL DEFAULT 0")
	return err
}

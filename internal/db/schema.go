package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh plank installs.
//
// This is the single source of truth for the database schema. All tests
// load it via GetSchemaSQL() so repository code and test databases cannot
// drift: a column referenced by a repository that is missing here fails
// immediately with "no such column".
//
// Keep this in sync with the migrations list when adding columns or tables.
const SchemaSQL = `
-- Records (planning units: feature -> phase -> session -> task)
CREATE TABLE IF NOT EXISTS records (
	ns TEXT NOT NULL,
	id TEXT NOT NULL,
	tier TEXT NOT NULL CHECK(tier IN ('feature', 'phase', 'session', 'task')),
	parent_id TEXT,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled', 'blocked')) DEFAULT 'pending',
	tags TEXT,
	blocked_by TEXT,
	planning_doc_path TEXT,
	planning_doc_section TEXT,
	scope TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (ns, id)
);

CREATE INDEX IF NOT EXISTS idx_records_parent ON records(ns, parent_id);
CREATE INDEX IF NOT EXISTS idx_records_status ON records(ns, status);

-- Change log (append-only history; seq gives stable iteration order)
CREATE TABLE IF NOT EXISTS change_log (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	ns TEXT NOT NULL,
	record_id TEXT NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	author TEXT,
	change_type TEXT NOT NULL,
	tier TEXT,
	before_state TEXT,
	after_state TEXT,
	reason TEXT,
	propagation_triggered INTEGER NOT NULL DEFAULT 0,
	related_changes TEXT,
	provisional INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_change_log_record ON change_log(ns, record_id);

-- Rollback history (every rollback operation, whatever its outcome)
CREATE TABLE IF NOT EXISTS rollbacks (
	id TEXT PRIMARY KEY,
	ns TEXT NOT NULL,
	record_id TEXT NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	author TEXT,
	rolled_back_to TEXT NOT NULL,
	rolled_back_from TEXT,
	type TEXT NOT NULL CHECK(type IN ('full', 'selective')),
	fields TEXT,
	reason TEXT,
	conflicts TEXT,
	status TEXT NOT NULL CHECK(status IN ('pending', 'completed', 'conflict', 'cancelled')) DEFAULT 'pending'
);

CREATE INDEX IF NOT EXISTS idx_rollbacks_record ON rollbacks(ns, record_id);

-- Citations (audit links between change log entries and records)
CREATE TABLE IF NOT EXISTS citations (
	id TEXT PRIMARY KEY,
	ns TEXT NOT NULL,
	record_id TEXT NOT NULL,
	change_log_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('status_change', 'description_change', 'parent_change', 'planning_doc_change', 'propagation_change', 'conflict_detected', 'rollback_applied')),
	context TEXT,
	priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high', 'critical')) DEFAULT 'medium',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	reviewed_at DATETIME,
	dismissed INTEGER NOT NULL DEFAULT 0,
	reason TEXT,
	impact TEXT,
	FOREIGN KEY (change_log_id) REFERENCES change_log(id)
);

CREATE INDEX IF NOT EXISTS idx_citations_record ON citations(ns, record_id);
CREATE INDEX IF NOT EXISTS idx_citations_change_log ON citations(change_log_id);
`

// InitSchema creates the schema on a fresh database and runs any pending
// migrations on an existing one.
func InitSchema(d *sql.DB) error {
	var tableCount int
	err := d.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		if _, err := d.Exec(SchemaSQL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		if _, err := d.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}
		// Fresh installs start at the latest version so migrations skip.
		for _, m := range migrations {
			if _, err := d.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return fmt.Errorf("failed to record schema version: %w", err)
			}
		}
		return nil
	}

	return RunMigrations(d)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

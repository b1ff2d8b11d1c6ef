// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/plank/internal/adapters/sqlite"
	"github.com/example/plank/internal/db"
	"github.com/example/plank/internal/models"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// testRecord builds a minimal valid record for seeding.
func testRecord(ns, id string, tier models.Tier) *models.Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Record{
		ID:        id,
		Namespace: ns,
		Tier:      tier,
		Title:     "Test " + id,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// seedRecord inserts a record through the repository and returns it.
func seedRecord(t *testing.T, d *sql.DB, rec *models.Record) *models.Record {
	t.Helper()
	repo := sqlite.NewRecordRepository(d)
	if err := repo.Put(context.Background(), rec); err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}
	return rec
}

// seedEntry appends a change log entry and returns it with Seq assigned.
func seedEntry(t *testing.T, d *sql.DB, entry *models.ChangeLogEntry) *models.ChangeLogEntry {
	t.Helper()
	repo := sqlite.NewChangeLogRepository(d)
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC().Truncate(time.Second)
	}
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("failed to seed change log entry: %v", err)
	}
	return entry
}

// seedCitation inserts a citation and returns it.
func seedCitation(t *testing.T, d *sql.DB, c *models.Citation) *models.Citation {
	t.Helper()
	repo := sqlite.NewCitationRepository(d)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("failed to seed citation: %v", err)
	}
	return c
}

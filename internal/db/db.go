package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var conn *sql.DB

// Open opens (and if necessary creates) a plank database at an explicit
// path and ensures the schema is current. ":memory:" is accepted for
// throwaway databases.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := d.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := InitSchema(d); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

// GetDB returns the process-wide database connection, initializing it at
// the default location on first use.
func GetDB() (*sql.DB, error) {
	if conn != nil {
		return conn, nil
	}

	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	conn, err = Open(path)
	if err != nil {
		conn = nil
		return nil, err
	}
	return conn, nil
}

// Close closes the process-wide database connection.
func Close() error {
	if conn != nil {
		err := conn.Close()
		conn = nil
		return err
	}
	return nil
}

// DefaultPath returns the default location of the plank database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".plank", "plank.db"), nil
}

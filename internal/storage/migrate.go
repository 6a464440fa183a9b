package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies every pending .up.sql migration in lexical order.
// Applied versions are tracked in schema_migrations, so reruns are
// no-ops.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	entries, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(entries)
	for _, name := range entries {
		version := migrationVersion(name, ".up.sql")
		applied, checkErr := migrationApplied(db, version)
		if checkErr != nil {
			return checkErr
		}
		if applied {
			continue
		}
		if err := applyMigration(db, name, version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration in reverse lexical
// order.
func MigrateDown(db *sql.DB) error {
	entries, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	for _, name := range entries {
		version := migrationVersion(name, ".down.sql")
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
		if _, err := db.Exec(`DELETE FROM schema_migrations WHERE version = ?`, version); err != nil {
			return fmt.Errorf("unrecord migration %s: %w", version, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, name, version string) error {
	sqlBytes, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := db.Exec(string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	return nil
}

func migrationApplied(db *sql.DB, version string) (bool, error) {
	var found string
	err := db.QueryRow(`SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return true, nil
}

func migrationVersion(name, suffix string) string {
	base := strings.TrimPrefix(name, "migrations/")
	return strings.TrimSuffix(base, suffix)
}

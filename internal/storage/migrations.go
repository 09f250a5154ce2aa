package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      func(Dialect) string
	Down    func(Dialect) string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      func(d Dialect) string { return d.Schema },
		Down:    func(d Dialect) string { return d.Teardown },
	},
}

const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const sqliteSchemaV1 = `
-- Folder snapshot, one row per remote folder
CREATE TABLE IF NOT EXISTS folder_cache (
    folder_id TEXT PRIMARY KEY,
    parent_id TEXT,
    name TEXT NOT NULL,
    path TEXT NOT NULL,
    last_updated TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_folder_cache_parent ON folder_cache(parent_id);
CREATE INDEX IF NOT EXISTS idx_folder_cache_updated ON folder_cache(last_updated);

-- Synonym memoization keyed by the original word
CREATE TABLE IF NOT EXISTS synonym_cache (
    word TEXT PRIMARY KEY,
    synonyms_json TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Search result cache (schema only, not populated)
CREATE TABLE IF NOT EXISTS search_result_cache (
    query_hash TEXT PRIMARY KEY,
    query_text TEXT NOT NULL,
    results_json TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_search_result_expires ON search_result_cache(expires_at);
`

const postgresSchemaV1 = `
CREATE TABLE IF NOT EXISTS folder_cache (
    folder_id VARCHAR(255) PRIMARY KEY,
    parent_id VARCHAR(255),
    name VARCHAR(512) NOT NULL,
    path TEXT NOT NULL,
    last_updated TIMESTAMPTZ NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_folder_cache_parent ON folder_cache(parent_id);
CREATE INDEX IF NOT EXISTS idx_folder_cache_updated ON folder_cache(last_updated);

CREATE TABLE IF NOT EXISTS synonym_cache (
    word VARCHAR(255) PRIMARY KEY,
    synonyms_json JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS search_result_cache (
    query_hash VARCHAR(64) PRIMARY KEY,
    query_text TEXT NOT NULL,
    results_json JSONB NOT NULL,
    created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_search_result_expires ON search_result_cache(expires_at);
`

const schemaV1Down = `
DROP TABLE IF EXISTS search_result_cache;
DROP TABLE IF EXISTS synonym_cache;
DROP TABLE IF EXISTS folder_cache;
`

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, schemaVersionTable); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		// Skip if already applied (current >= migration)
		if !currentVersion.LessThan(migrationVersion) {
			continue
		}

		if _, err := db.ExecContext(ctx, migration.Up(dialect)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		_, err = db.ExecContext(ctx, dialect.Rebind("INSERT INTO schema_version (version) VALUES (?)"), migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}

// currentSchemaVersion returns the newest applied version, 0.0.0 when none
func currentSchemaVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer func() { _ = rows.Close() }()

	current := semver.MustParse("0.0.0")
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid current schema version %s: %w", raw, err)
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	return current, rows.Err()
}

// RollbackMigration rolls back the most recent migration
func RollbackMigration(ctx context.Context, db *sql.DB, dialect Dialect) error {
	current, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current.Equal(semver.MustParse("0.0.0")) {
		return fmt.Errorf("no migrations to rollback")
	}

	var migration *Migration
	for i := range AllMigrations {
		if semver.MustParse(AllMigrations[i].Version).Equal(current) {
			migration = &AllMigrations[i]
			break
		}
	}
	if migration == nil {
		return fmt.Errorf("migration %s not found", current)
	}

	if _, err := db.ExecContext(ctx, migration.Down(dialect)); err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", migration.Version, err)
	}

	_, err = db.ExecContext(ctx, dialect.Rebind("DELETE FROM schema_version WHERE version = ?"), migration.Version)
	if err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", migration.Version, err)
	}

	return nil
}

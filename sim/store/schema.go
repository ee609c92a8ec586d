// Package store persists finished simulation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the run store.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT NOT NULL,
    step_size REAL NOT NULL,
    days REAL NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_regions (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    region TEXT NOT NULL,
    r_naught REAL NOT NULL,
    traffic_rate REAL NOT NULL,
    initial_population REAL NOT NULL,
    PRIMARY KEY (run_id, region)
);

-- One row per region per step, padding already stripped
CREATE TABLE IF NOT EXISTS region_states (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    region TEXT NOT NULL,
    step INTEGER NOT NULL,
    day REAL NOT NULL,
    susceptible REAL NOT NULL,
    exposed REAL NOT NULL,
    infectious REAL NOT NULL,
    recovered REAL NOT NULL,
    dead REAL NOT NULL,
    population REAL NOT NULL,
    hospitalized REAL NOT NULL,
    PRIMARY KEY (run_id, region, step)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates all tables and records the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

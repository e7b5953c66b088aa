package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaSystemUser = `
CREATE TABLE IF NOT EXISTS system_user (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    password_hash TEXT NOT NULL,
    last_password_change TIMESTAMP NOT NULL
);
`

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TIMESTAMP NOT NULL,
    bucket TIMESTAMP NOT NULL,
    indoor_temp REAL NOT NULL,
    heater_level INTEGER NOT NULL DEFAULT 0,
    fan_level INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);
`

const schemaPredictions = `
CREATE TABLE IF NOT EXISTS temperature_predictions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bucket TIMESTAMP NOT NULL,
    predicted_temp REAL NOT NULL,
    adjusted_temp REAL,
    outdoor_temp REAL,
    heater_level INTEGER,
    fan_speed INTEGER,
    comfort_temp REAL,
    created_at TIMESTAMP NOT NULL
);
`

const schemaModeHistory = `
CREATE TABLE IF NOT EXISTS mode_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    mode INTEGER NOT NULL,
    selected_at TIMESTAMP NOT NULL
);
`

// Indexes back the hot paths: range scans on reading timestamps and the
// bucket equality join between readings and predictions.
const schemaIndexes = `
CREATE INDEX IF NOT EXISTS idx_sensor_readings_ts ON sensor_readings(ts);
CREATE INDEX IF NOT EXISTS idx_sensor_readings_bucket ON sensor_readings(bucket);
CREATE INDEX IF NOT EXISTS idx_predictions_bucket ON temperature_predictions(bucket);
CREATE INDEX IF NOT EXISTS idx_mode_history_selected ON mode_history(selected_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSystemUser,
		schemaSensorReadings,
		schemaPredictions,
		schemaModeHistory,
		schemaIndexes,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

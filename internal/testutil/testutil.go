package testutil

import (
	"database/sql"
	"io/fs"
	"sort"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vrisa/alertengine/migrations"
)

// NewTestDB creates an in-memory SQLite database with the schema applied.
// The pool is capped at one connection, as in production SQLite, so every
// query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema, err := migrations.GetFS("sqlite")
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	files, err := fs.Glob(schema, "*.sql")
	if err != nil {
		t.Fatalf("Failed to list migrations: %v", err)
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := fs.ReadFile(schema, name)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			t.Fatalf("Failed to apply %s: %v", name, err)
		}
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// SeedSensor inserts a station and a sensor installed at it
func SeedSensor(t *testing.T, db *sql.DB, sensorID, stationID int64) {
	t.Helper()
	if _, err := db.Exec(`INSERT OR IGNORE INTO stations (id, name) VALUES (?, ?)`, stationID, "station"); err != nil {
		t.Fatalf("Failed to seed station: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO sensors (id, station_id) VALUES (?, ?)`, sensorID, stationID); err != nil {
		t.Fatalf("Failed to seed sensor: %v", err)
	}
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

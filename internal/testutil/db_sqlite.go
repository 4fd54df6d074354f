// Package testutil provides SQLite test helpers shared across packages.
package testutil

import (
	"database/sql"
	"os"
	"testing"

	_ "modernc.org/sqlite"
)

// SetupSQLite creates an in-memory SQLite database for testing.
// The pool is limited to a single connection so every statement sees the
// same in-memory database. Closed automatically when the test completes.
func SetupSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite connection: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping sqlite: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupSQLiteFile creates a file-based SQLite database for testing.
// The file is automatically removed when the test completes.
func SetupSQLiteFile(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open sqlite file: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping sqlite: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
	})

	return db
}

// AssertTableExists checks that a table exists in the database.
func AssertTableExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()

	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, table).Scan(&name)
	if err == sql.ErrNoRows {
		t.Errorf("expected table %q to exist, but it does not", table)
		return
	}
	if err != nil {
		t.Fatalf("failed to check if table exists: %v", err)
	}
}

// AssertTableNotExists checks that a table does not exist in the database.
func AssertTableNotExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()

	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return // Table does not exist, as expected
	}
	if err != nil {
		t.Fatalf("failed to check if table exists: %v", err)
	}
	t.Errorf("expected table %q to not exist, but it does", table)
}

// columnNames returns the column names of a table via PRAGMA table_xinfo,
// which includes generated columns.
func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_xinfo(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid, notNull, pk, hidden int
		var name, ctype string
		var defaultValue any
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultValue, &pk, &hidden); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		names = append(names, name)
	}
	return names
}

// AssertColumnExists checks that a column exists in a table.
func AssertColumnExists(t *testing.T, db *sql.DB, table, column string) {
	t.Helper()

	for _, name := range columnNames(t, db, table) {
		if name == column {
			return
		}
	}
	t.Errorf("expected column %q to exist in table %q, but it does not", column, table)
}

// AssertColumnNotExists checks that a column does not exist in a table.
func AssertColumnNotExists(t *testing.T, db *sql.DB, table, column string) {
	t.Helper()

	for _, name := range columnNames(t, db, table) {
		if name == column {
			t.Errorf("expected column %q to not exist in table %q, but it does", column, table)
			return
		}
	}
}

// ExecSQL executes a SQL statement and fails the test on error.
func ExecSQL(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()

	_, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("failed to execute SQL:\n%s\nerror: %v", query, err)
	}
}

// AssertRowCount checks that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}

package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hlop3z/tabula/internal/dialect"
	"github.com/hlop3z/tabula/internal/tberr"
)

// Inspector reads schema metadata from a live SQLite database.
type Inspector struct {
	db *sql.DB
}

// NewInspector creates an Inspector over an open database handle.
func NewInspector(db *sql.DB) *Inspector {
	return &Inspector{db: db}
}

// TableInfo returns the live columns of a table via PRAGMA table_xinfo,
// in column order. table_xinfo (unlike table_info) includes generated
// columns and reports the hidden flag that distinguishes them.
// Returns an empty slice for a table that does not exist.
func (i *Inspector) TableInfo(ctx context.Context, tableName string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_xinfo(%s)", dialect.QuoteIdent(tableName))

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, tberr.Wrap(tberr.ErrIntrospection, err, "failed to read table info").
			WithTable(tableName)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var notNull int

		// table_xinfo returns: cid, name, type, notnull, dflt_value, pk, hidden
		err := rows.Scan(&col.CID, &col.Name, &col.Type, &notNull, &col.DefaultValue, &col.PK, &col.Hidden)
		if err != nil {
			return nil, tberr.Wrap(tberr.ErrIntrospection, err, "failed to scan column").
				WithTable(tableName)
		}
		col.NotNull = notNull != 0

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, tberr.Wrap(tberr.ErrIntrospection, err, "failed to iterate columns").
			WithTable(tableName)
	}

	return columns, nil
}

// TableExists reports whether a table with the given name exists.
func (i *Inspector) TableExists(ctx context.Context, tableName string) (bool, error) {
	var name string
	err := i.db.QueryRowContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, tableName).Scan(&name)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, tberr.WrapSQL(err, "check table existence", tableName)
	}
	return true, nil
}

// ListTables returns the names of all user tables, sorted.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, tberr.WrapSQL(err, "list tables", "")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, tberr.WrapSQL(err, "scan table name", "")
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// ServerVersion returns the SQLite library version string, e.g. "3.46.1".
func (i *Inspector) ServerVersion(ctx context.Context) (string, error) {
	var version string
	err := i.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version)
	if err != nil {
		return "", tberr.WrapSQL(err, "read server version", "")
	}
	return version, nil
}

// UserVersion returns the value of PRAGMA user_version.
func (i *Inspector) UserVersion(ctx context.Context) (int, error) {
	var version int
	err := i.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return 0, tberr.WrapSQL(err, "read user version", "")
	}
	return version, nil
}

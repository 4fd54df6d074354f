// Package introspect reads the live schema out of a SQLite database.
// All reads are fresh; nothing is cached between reconciliation passes.
package introspect

import (
	"database/sql"
	"strings"
)

// Hidden-flag values reported by PRAGMA table_xinfo.
const (
	hiddenNone    = 0 // ordinary column
	hiddenVirtual = 2 // VIRTUAL generated column
	hiddenStored  = 3 // STORED generated column
)

// Column is one row of PRAGMA table_xinfo for a live table.
type Column struct {
	CID          int            // Column position
	Name         string         // Column name
	Type         string         // Declared type, verbatim
	NotNull      bool           // NOT NULL constraint present
	DefaultValue sql.NullString // DEFAULT clause text, NULL when absent
	PK           int            // 1-based position within the primary key, 0 if not part of it
	Hidden       int            // 0 ordinary, 2 virtual generated, 3 stored generated
}

// IsPrimaryKey reports whether the column belongs to the primary key.
func (c Column) IsPrimaryKey() bool {
	return c.PK > 0
}

// HasDefault reports whether the column carries a DEFAULT clause.
func (c Column) HasDefault() bool {
	return c.DefaultValue.Valid
}

// IsGenerated reports whether the column is database-computed.
func (c Column) IsGenerated() bool {
	return c.Hidden == hiddenVirtual || c.Hidden == hiddenStored
}

// IsStoredGenerated reports whether the column is a STORED generated column.
func (c Column) IsStoredGenerated() bool {
	return c.Hidden == hiddenStored
}

// IsVirtualGenerated reports whether the column is a VIRTUAL generated column.
func (c Column) IsVirtualGenerated() bool {
	return c.Hidden == hiddenVirtual
}

// NormalizeType canonicalizes a declared SQL type for comparison.
// SQLite preserves the declared type verbatim, so "Integer" and "INTEGER"
// describe the same affinity.
func NormalizeType(declared string) string {
	return strings.ToUpper(strings.TrimSpace(declared))
}

// Package engine implements schema reconciliation: classifying the
// difference between a declared table and the live table, planning the
// minimal-risk DDL sequence to resolve it, and executing (or simulating)
// that plan.
package engine

import (
	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/dialect"
	"github.com/hlop3z/tabula/internal/introspect"
)

// Options controls classification strictness.
type Options struct {
	// CompareDefaultValues compares default value text, not just presence.
	// The live default is the literal as written in the original CREATE
	// TABLE, so this is only reliable for schemas this engine created.
	CompareDefaultValues bool
}

// Diff is the structured difference between a declared table and its live
// counterpart. Produced fresh per reconciliation pass, never cached.
type Diff struct {
	ToAdd      []*ast.ColumnDef    // Declared columns with no live counterpart
	Extraneous []introspect.Column // Live columns with no declared counterpart
	Mismatched []string            // Names of columns present in both but not alterable in place

	// Incompatible is true when any shared column differs in a property
	// that cannot be changed with ADD/DROP alone. Forces full recreation.
	Incompatible bool
}

// ExtraneousNames returns the names of the extraneous live columns.
func (d Diff) ExtraneousNames() []string {
	names := make([]string, 0, len(d.Extraneous))
	for _, col := range d.Extraneous {
		names = append(names, col.Name)
	}
	return names
}

// IgnoreNames returns the columns excluded from a backup copy: the
// extraneous ones plus the mismatched ones.
func (d Diff) IgnoreNames() []string {
	names := d.ExtraneousNames()
	return append(names, d.Mismatched...)
}

// Empty reports whether declared and live schemas agree.
func (d Diff) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.Extraneous) == 0 && !d.Incompatible
}

// Classify compares a declared table against its live columns.
// Pure and total: an empty live set is valid input and simply marks every
// declared column as missing (the caller decides whether the table exists).
func Classify(table *ast.TableDef, live []introspect.Column, opts Options) Diff {
	var diff Diff

	liveByName := make(map[string]introspect.Column, len(live))
	for _, col := range live {
		liveByName[col.Name] = col
	}

	for _, declared := range table.Columns {
		liveCol, ok := liveByName[declared.Name]
		if !ok {
			diff.ToAdd = append(diff.ToAdd, declared)
			continue
		}
		if !columnsMatch(table, declared, liveCol, opts) {
			diff.Mismatched = append(diff.Mismatched, declared.Name)
			diff.Incompatible = true
		}
	}

	// Hidden generated columns with a declared generated counterpart are
	// matched by name above; anything left over is genuine drift.
	for _, liveCol := range live {
		if !table.HasColumn(liveCol.Name) {
			diff.Extraneous = append(diff.Extraneous, liveCol)
		}
	}

	return diff
}

// columnsMatch reports whether a shared column can stay as it is.
// Type, nullability, default presence, primary-key membership, and
// generated storage class must all agree; none of them can be altered
// in place, so any mismatch forces recreation.
func columnsMatch(table *ast.TableDef, declared *ast.ColumnDef, live introspect.Column, opts Options) bool {
	if dialect.TypeSQL(declared.Type) != introspect.NormalizeType(live.Type) {
		return false
	}
	if effectiveNotNull(table, declared) != live.NotNull {
		return false
	}
	if declared.DefaultSet != live.HasDefault() {
		return false
	}
	if table.IsPrimaryKey(declared.Name) != live.IsPrimaryKey() {
		return false
	}
	if (declared.Generated != nil) != live.IsGenerated() {
		return false
	}
	if declared.Generated != nil && declared.Generated.Stored != live.IsStoredGenerated() {
		return false
	}

	if opts.CompareDefaultValues && declared.DefaultSet {
		rendered, err := dialect.DefaultValueSQL(declared.Default)
		if err != nil || rendered != live.DefaultValue.String {
			return false
		}
	}

	return true
}

// effectiveNotNull returns the nullability SQLite actually enforces for a
// declared column. Primary-key columns of WITHOUT ROWID tables are NOT NULL
// whether or not the declaration says so, and table_xinfo reports them that
// way.
func effectiveNotNull(table *ast.TableDef, declared *ast.ColumnDef) bool {
	return declared.NotNull || (table.WithoutRowID && table.IsPrimaryKey(declared.Name))
}

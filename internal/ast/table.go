// Package ast defines the declared-schema model: the table and column
// definitions authored by the application, which the reconciliation engine
// compares against the live database schema.
package ast

import (
	"fmt"
	"regexp"

	"github.com/hlop3z/tabula/internal/tberr"
)

// Validation messages shared across TableDef and ColumnDef.
const (
	msgTableNameRequired  = "table name is required"
	msgColumnNameRequired = "column name is required"
	msgTableNeedsColumn   = "table must have at least one column"
)

// validIdentifierPattern matches safe SQL identifiers (lowercase snake_case).
var validIdentifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateIdentifier checks that a name is a safe SQL identifier (lowercase snake_case).
func ValidateIdentifier(name string) error {
	if !validIdentifierPattern.MatchString(name) {
		return tberr.New(tberr.ErrSchemaInvalid,
			fmt.Sprintf("invalid identifier %q; must match [a-z_][a-z0-9_]*", name))
	}
	return nil
}

// -----------------------------------------------------------------------------
// TableDef - declared table definition
// -----------------------------------------------------------------------------

// TableDef represents a declared table: the target state the live database
// is reconciled towards. Declared once, immutable for the process lifetime.
type TableDef struct {
	Name    string       // Table name (snake_case)
	Columns []*ColumnDef // Column definitions in declaration order

	// WithoutRowID declares the table WITHOUT ROWID. Requires a primary key.
	WithoutRowID bool

	// PrimaryKey lists the columns of a composite primary key. When set,
	// no individual column may carry the PrimaryKey flag.
	PrimaryKey []string

	// SourceFile is the schema file that defined this table (for error reporting).
	SourceFile string
}

// GetColumn returns the column with the given name, or nil if not found.
func (t *TableDef) GetColumn(name string) *ColumnDef {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// HasColumn returns true if the table has a column with the given name.
func (t *TableDef) HasColumn(name string) bool {
	return t.GetColumn(name) != nil
}

// PrimaryKeyColumns returns the names of all primary key columns, either
// from the composite key declaration or from individual column flags.
func (t *TableDef) PrimaryKeyColumns() []string {
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey
	}
	var names []string
	for _, col := range t.Columns {
		if col.PrimaryKey {
			names = append(names, col.Name)
		}
	}
	return names
}

// IsPrimaryKey reports whether the named column belongs to the primary key.
func (t *TableDef) IsPrimaryKey(name string) bool {
	for _, pk := range t.PrimaryKeyColumns() {
		if pk == name {
			return true
		}
	}
	return false
}

// checkDuplicateColumns returns an error if any column name appears more than once.
func (t *TableDef) checkDuplicateColumns() error {
	seen := make(map[string]bool)
	for _, col := range t.Columns {
		if seen[col.Name] {
			return tberr.New(tberr.ErrSchemaDuplicate, "duplicate column name").
				WithTable(t.Name).
				WithColumn(col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// Validate checks that the table definition is well-formed.
func (t *TableDef) Validate() error {
	if t.Name == "" {
		return tberr.New(tberr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if err := ValidateIdentifier(t.Name); err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return tberr.New(tberr.ErrSchemaInvalid, msgTableNeedsColumn).
			WithTable(t.Name)
	}
	if err := t.checkDuplicateColumns(); err != nil {
		return err
	}
	for _, col := range t.Columns {
		if err := col.Validate(); err != nil {
			return tberr.Wrap(tberr.ErrSchemaInvalid, err, "invalid column").
				WithTable(t.Name).
				WithColumn(col.Name)
		}
	}

	// Composite key columns must exist and must not double up with column-level flags.
	if len(t.PrimaryKey) > 0 {
		for _, name := range t.PrimaryKey {
			if !t.HasColumn(name) {
				return tberr.New(tberr.ErrColumnNotFound, "composite primary key references unknown column").
					WithTable(t.Name).
					WithColumn(name)
			}
		}
		for _, col := range t.Columns {
			if col.PrimaryKey {
				return tberr.New(tberr.ErrSchemaInvalid, "column-level PRIMARY KEY conflicts with composite key").
					WithTable(t.Name).
					WithColumn(col.Name)
			}
		}
	} else {
		pkCount := 0
		for _, col := range t.Columns {
			if col.PrimaryKey {
				pkCount++
			}
		}
		if pkCount > 1 {
			return tberr.New(tberr.ErrSchemaInvalid, "multiple PRIMARY KEY columns; declare a composite key instead").
				WithTable(t.Name)
		}
	}

	if t.WithoutRowID && len(t.PrimaryKeyColumns()) == 0 {
		return tberr.New(tberr.ErrSchemaInvalid, "WITHOUT ROWID table requires a primary key").
			WithTable(t.Name)
	}

	return nil
}

// -----------------------------------------------------------------------------
// ColumnDef - declared column definition
// -----------------------------------------------------------------------------

// ColumnDef represents a declared column with type, constraints, and an
// optional generated-column specification.
type ColumnDef struct {
	Name string // Column name (snake_case)
	Type string // Type name (integer, text, float, blob, boolean, datetime, ...)

	// Constraints
	NotNull    bool // NOT NULL constraint
	PrimaryKey bool // Column-level PRIMARY KEY

	// Default values
	Default    any  // Default value for new rows (Go value or raw SQL via SQLExpr)
	DefaultSet bool // True if Default was explicitly set

	// Generated column specification, nil for ordinary columns.
	Generated *GeneratedSpec
}

// GeneratedSpec describes a database-computed column.
// Stored columns are persisted and cannot be appended to an existing table;
// virtual columns are computed on read and can be added via ALTER TABLE.
type GeneratedSpec struct {
	Expr   string // SQL expression computing the value
	Stored bool   // STORED if true, VIRTUAL otherwise
}

// Validate checks that the column definition is well-formed.
func (c *ColumnDef) Validate() error {
	if c.Name == "" {
		return tberr.New(tberr.ErrSchemaInvalid, msgColumnNameRequired)
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if c.Type == "" {
		return tberr.New(tberr.ErrSchemaInvalid, "column type is required").
			WithColumn(c.Name)
	}
	if c.Generated != nil {
		if c.Generated.Expr == "" {
			return tberr.New(tberr.ErrSchemaInvalid, "generated column requires an expression").
				WithColumn(c.Name)
		}
		if c.DefaultSet {
			return tberr.New(tberr.ErrSchemaInvalid, "generated column cannot have a default").
				WithColumn(c.Name)
		}
	}
	return nil
}

// HasDefault returns true if a default value is declared.
func (c *ColumnDef) HasDefault() bool {
	return c.DefaultSet
}

// IsStoredGenerated reports whether the column is a STORED generated column.
func (c *ColumnDef) IsStoredGenerated() bool {
	return c.Generated != nil && c.Generated.Stored
}

// IsVirtualGenerated reports whether the column is a VIRTUAL generated column.
func (c *ColumnDef) IsVirtualGenerated() bool {
	return c.Generated != nil && !c.Generated.Stored
}

// -----------------------------------------------------------------------------
// SQLExpr - marks raw SQL expressions
// -----------------------------------------------------------------------------

// SQLExpr marks a string as a raw SQL expression to be passed through to the
// database without quoting or escaping.
//
// Examples:
//   - &SQLExpr{Expr: "CURRENT_TIMESTAMP"}
//   - &SQLExpr{Expr: "datetime('now')"}
type SQLExpr struct {
	Expr string `json:"expr" yaml:"expr"`
}

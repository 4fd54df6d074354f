package tabula

import (
	"github.com/hlop3z/tabula/internal/ast"
)

// Table declares one table programmatically. The zero value is not
// useful; at minimum Name and one Column are required.
type Table struct {
	Name string

	// Columns in declaration order.
	Columns []Column

	// PrimaryKey declares a composite primary key by column name. When
	// set, no individual column may set its PrimaryKey flag.
	PrimaryKey []string

	// WithoutRowID creates the table WITHOUT ROWID. Requires a primary key.
	WithoutRowID bool
}

// Column declares one table column.
type Column struct {
	Name string
	Type string // integer, text, float, blob, boolean, datetime, date, time, decimal, json

	NotNull    bool
	PrimaryKey bool

	// Default is the default value for new rows. HasDefault marks
	// presence, so an explicit NULL default can be told apart from no
	// default at all. Use SQLExpr for raw SQL defaults.
	Default    any
	HasDefault bool

	// Generated makes this a database-computed column.
	Generated *Generated
}

// Generated specifies a database-computed column. Stored columns are
// persisted and cannot be appended to an existing table; virtual columns
// are computed on read and can be added in place.
type Generated struct {
	Expr   string
	Stored bool
}

// SQLExpr marks a default value as a raw SQL expression, passed through
// to the database without quoting.
//
// Example:
//
//	tabula.Column{
//	    Name: "created_at", Type: "datetime",
//	    Default: tabula.SQLExpr{Expr: "CURRENT_TIMESTAMP"}, HasDefault: true,
//	}
type SQLExpr struct {
	Expr string
}

// toAST converts the public declaration into the internal model.
func (t Table) toAST() *ast.TableDef {
	table := &ast.TableDef{
		Name:         t.Name,
		PrimaryKey:   t.PrimaryKey,
		WithoutRowID: t.WithoutRowID,
	}
	for _, col := range t.Columns {
		table.Columns = append(table.Columns, col.toAST())
	}
	return table
}

func (c Column) toAST() *ast.ColumnDef {
	col := &ast.ColumnDef{
		Name:       c.Name,
		Type:       c.Type,
		NotNull:    c.NotNull,
		PrimaryKey: c.PrimaryKey,
		DefaultSet: c.HasDefault,
	}

	switch v := c.Default.(type) {
	case SQLExpr:
		col.Default = &ast.SQLExpr{Expr: v.Expr}
	case *SQLExpr:
		if v != nil {
			col.Default = &ast.SQLExpr{Expr: v.Expr}
		}
	default:
		col.Default = c.Default
	}

	if c.Generated != nil {
		col.Generated = &ast.GeneratedSpec{Expr: c.Generated.Expr, Stored: c.Generated.Stored}
	}
	return col
}

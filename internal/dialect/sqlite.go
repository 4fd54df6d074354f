// Package dialect renders SQLite DDL and the row-copy DML used during
// table recreation. All identifiers are double-quoted; values are rendered
// as SQL literals because DDL cannot be parameterized.
package dialect

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/tberr"
)

// -----------------------------------------------------------------------------
// Identifiers and types
// -----------------------------------------------------------------------------

// QuoteIdent quotes an identifier with double quotes, escaping embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TypeSQL maps a declared column type to its SQLite type name.
// SQLite preserves the declared type verbatim, so the same mapping is used
// when comparing declared columns against introspected ones.
func TypeSQL(typeName string) string {
	switch strings.ToLower(typeName) {
	case "integer", "int":
		return "INTEGER"
	case "text", "string":
		return "TEXT"
	case "float", "real":
		return "REAL"
	case "blob", "base64":
		return "BLOB"
	case "boolean", "bool":
		// SQLite has no native BOOLEAN; use INTEGER (0 = false, 1 = true).
		return "INTEGER"
	case "datetime", "timestamp":
		return "DATETIME"
	case "date":
		return "DATE"
	case "time":
		return "TIME"
	case "decimal", "numeric":
		// No precision metadata survives in SQLite; store as TEXT.
		return "TEXT"
	case "json":
		return "TEXT"
	default:
		// SQLite is lenient with types, default to text affinity.
		return "TEXT"
	}
}

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// DefaultValueSQL renders a default value as a SQL literal.
// *ast.SQLExpr values pass through unquoted inside parentheses.
// Returns ErrValueIsNull for a nil value, since a declared default must
// carry a renderable value.
func DefaultValueSQL(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", tberr.New(tberr.ErrValueIsNull, "default value is set but absent")
	case *ast.SQLExpr:
		return "(" + v.Expr + ")", nil
	case ast.SQLExpr:
		return "(" + v.Expr + ")", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'", nil
	default:
		// Numeric types render via fmt.
		return fmt.Sprintf("%v", v), nil
	}
}

// -----------------------------------------------------------------------------
// Column and table DDL
// -----------------------------------------------------------------------------

// ColumnDefSQL renders a single column definition for CREATE TABLE or
// ALTER TABLE ADD COLUMN. The includePK flag suppresses the column-level
// PRIMARY KEY clause when the table declares a composite key.
func ColumnDefSQL(col *ast.ColumnDef, includePK bool) (string, error) {
	var b strings.Builder

	b.WriteString(QuoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(TypeSQL(col.Type))

	if includePK && col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}

	if col.NotNull {
		b.WriteString(" NOT NULL")
	}

	if col.DefaultSet {
		lit, err := DefaultValueSQL(col.Default)
		if err != nil {
			return "", tberr.Wrap(tberr.ErrValueIsNull, err, "cannot render default").
				WithColumn(col.Name)
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(lit)
	}

	if col.Generated != nil {
		b.WriteString(" GENERATED ALWAYS AS (")
		b.WriteString(col.Generated.Expr)
		b.WriteString(")")
		if col.Generated.Stored {
			b.WriteString(" STORED")
		} else {
			b.WriteString(" VIRTUAL")
		}
	}

	return b.String(), nil
}

// CreateTableSQL renders a complete CREATE TABLE statement including
// composite primary keys, generated columns, and the WITHOUT ROWID modifier.
func CreateTableSQL(table *ast.TableDef) (string, error) {
	var b strings.Builder

	b.WriteString("CREATE TABLE ")
	b.WriteString(QuoteIdent(table.Name))
	b.WriteString(" (\n")

	includeColumnPK := len(table.PrimaryKey) == 0
	for i, col := range table.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		def, err := ColumnDefSQL(col, includeColumnPK)
		if err != nil {
			return "", err
		}
		b.WriteString("  ")
		b.WriteString(def)
	}

	if len(table.PrimaryKey) > 0 {
		b.WriteString(",\n  PRIMARY KEY (")
		for i, name := range table.PrimaryKey {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(QuoteIdent(name))
		}
		b.WriteString(")")
	}

	b.WriteString("\n)")

	if table.WithoutRowID {
		b.WriteString(" WITHOUT ROWID")
	}

	return b.String(), nil
}

// AddColumnSQL renders ALTER TABLE ... ADD COLUMN.
// STORED generated columns cannot be appended to an existing table; the
// caller must recreate the table instead.
func AddColumnSQL(tableName string, col *ast.ColumnDef) (string, error) {
	if col.IsStoredGenerated() {
		return "", tberr.New(tberr.ErrSchemaInvalid, "cannot add a STORED generated column to an existing table").
			WithTable(tableName).
			WithColumn(col.Name)
	}

	def, err := ColumnDefSQL(col, true)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", QuoteIdent(tableName), def), nil
}

// DropColumnSQL renders ALTER TABLE ... DROP COLUMN (SQLite >= 3.35.0).
func DropColumnSQL(tableName, columnName string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", QuoteIdent(tableName), QuoteIdent(columnName))
}

// DropTableSQL renders DROP TABLE.
func DropTableSQL(tableName string) string {
	return fmt.Sprintf("DROP TABLE %s", QuoteIdent(tableName))
}

// RenameTableSQL renders ALTER TABLE ... RENAME TO.
func RenameTableSQL(oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", QuoteIdent(oldName), QuoteIdent(newName))
}

// InsertSelectSQL renders the row-copy statement used when rebuilding a
// table: INSERT INTO dst (cols) SELECT cols FROM src.
func InsertSelectSQL(dstTable, srcTable string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", tberr.New(tberr.ErrSchemaInvalid, "no columns to copy").
			WithTable(srcTable)
	}

	quoted := make([]string, len(columns))
	for i, name := range columns {
		quoted[i] = QuoteIdent(name)
	}
	cols := strings.Join(quoted, ", ")

	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
		QuoteIdent(dstTable), cols, cols, QuoteIdent(srcTable)), nil
}

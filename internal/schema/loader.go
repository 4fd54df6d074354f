// Package schema loads declared table definitions from YAML files.
// One file declares one table; files are processed in name order, which
// defines the declaration order used during reconciliation.
package schema

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/tberr"
)

// tableFile is the YAML shape of one declared table.
type tableFile struct {
	Name         string       `yaml:"name"`
	WithoutRowID bool         `yaml:"without_rowid"`
	PrimaryKey   []string     `yaml:"primary_key"`
	Columns      []columnFile `yaml:"columns"`
}

// columnFile is the YAML shape of one declared column.
// Default is kept as a raw node so an absent key can be told apart from
// an explicit null.
type columnFile struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	NotNull     bool           `yaml:"not_null"`
	PrimaryKey  bool           `yaml:"primary_key"`
	Default     yaml.Node      `yaml:"default"`
	DefaultExpr string         `yaml:"default_expr"`
	Generated   *generatedFile `yaml:"generated"`
}

type generatedFile struct {
	Expr   string `yaml:"expr"`
	Stored bool   `yaml:"stored"`
}

// LoadDir loads every .yaml/.yml file in dir into table definitions, in
// file name order. Each table is validated; duplicate table names are
// rejected across the whole directory.
func LoadDir(dir string) ([]*ast.TableDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, tberr.Wrap(tberr.ErrSchemaNotFound, err, "cannot read schemas directory").
			With("dir", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	tables := make([]*ast.TableDef, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, name := range files {
		path := filepath.Join(dir, name)
		table, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[table.Name]; ok {
			return nil, tberr.New(tberr.ErrSchemaDuplicate, "table declared twice").
				WithTable(table.Name).
				With("file", path).
				With("previous_file", prev)
		}
		seen[table.Name] = path
		tables = append(tables, table)
	}

	return tables, nil
}

// LoadFile loads and validates a single table definition.
func LoadFile(path string) (*ast.TableDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tberr.Wrap(tberr.ErrSchemaNotFound, err, "cannot read schema file").
			With("file", path)
	}

	var raw tableFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, tberr.Wrap(tberr.ErrSchemaInvalid, err, "cannot parse schema file").
			With("file", path)
	}

	table, err := raw.toTableDef()
	if err != nil {
		return nil, tberr.Wrap(tberr.ErrSchemaInvalid, err, "invalid schema file").
			With("file", path)
	}
	table.SourceFile = path

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (f *tableFile) toTableDef() (*ast.TableDef, error) {
	table := &ast.TableDef{
		Name:         f.Name,
		WithoutRowID: f.WithoutRowID,
		PrimaryKey:   f.PrimaryKey,
	}

	for i := range f.Columns {
		col, err := f.Columns[i].toColumnDef()
		if err != nil {
			return nil, err
		}
		table.Columns = append(table.Columns, col)
	}

	return table, nil
}

func (f *columnFile) toColumnDef() (*ast.ColumnDef, error) {
	col := &ast.ColumnDef{
		Name:       f.Name,
		Type:       f.Type,
		NotNull:    f.NotNull,
		PrimaryKey: f.PrimaryKey,
	}

	hasLiteral := !f.Default.IsZero()
	if hasLiteral && f.DefaultExpr != "" {
		return nil, tberr.New(tberr.ErrSchemaInvalid, "default and default_expr are mutually exclusive").
			WithColumn(f.Name)
	}

	switch {
	case f.DefaultExpr != "":
		col.Default = &ast.SQLExpr{Expr: f.DefaultExpr}
		col.DefaultSet = true
	case hasLiteral:
		var value any
		if err := f.Default.Decode(&value); err != nil {
			return nil, tberr.Wrap(tberr.ErrSchemaInvalid, err, "invalid default value").
				WithColumn(f.Name)
		}
		col.Default = value
		col.DefaultSet = true
	}

	if f.Generated != nil {
		col.Generated = &ast.GeneratedSpec{
			Expr:   f.Generated.Expr,
			Stored: f.Generated.Stored,
		}
	}

	return col, nil
}

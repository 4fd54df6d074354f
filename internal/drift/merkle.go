// Package drift provides fast schema drift detection using merkle trees.
// The declared schema and the live schema are both reduced to hierarchical
// hashes (schema -> tables -> columns); root hash equality answers "is
// anything out of sync" without running a full reconciliation pass.
package drift

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/cbergoon/merkletree"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/dialect"
	"github.com/hlop3z/tabula/internal/introspect"
	"github.com/hlop3z/tabula/internal/tberr"
)

// SchemaHash is the merkle root of one side (declared or live) of a schema.
type SchemaHash struct {
	Root   string                // Root hash of the whole schema
	Tables map[string]*TableHash // Per-table hashes for drill-down
}

// TableHash is the hash of a single table's column set.
type TableHash struct {
	Name    string            // Table name
	Hash    string            // Hash of the whole table structure
	Columns map[string]string // Column name -> hash
}

// tableContent implements merkletree.Content for table-level hashing.
type tableContent struct {
	name string
	hash string
}

func (t tableContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(t.hash))
	return h[:], nil
}

func (t tableContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(tableContent)
	if !ok {
		return false, nil
	}
	return t.hash == o.hash, nil
}

// columnProps is the canonical property tuple hashed for one column.
// Declared and live columns are both reduced to this shape so the two
// sides hash identically when reconciliation would find nothing to do.
type columnProps struct {
	name      string
	sqlType   string
	notNull   bool
	hasDflt   bool
	pk        bool
	generated string // "", "virtual", or "stored"
}

func (p columnProps) hash() string {
	data := fmt.Sprintf("name:%s|type:%s|notnull:%v|default:%v|pk:%v|generated:%s",
		p.name, p.sqlType, p.notNull, p.hasDflt, p.pk, p.generated)
	return hashString(data)
}

func declaredColumnProps(table *ast.TableDef, col *ast.ColumnDef) columnProps {
	p := columnProps{
		name:    col.Name,
		sqlType: dialect.TypeSQL(col.Type),
		notNull: col.NotNull,
		hasDflt: col.DefaultSet,
		pk:      table.IsPrimaryKey(col.Name),
	}
	switch {
	case col.IsStoredGenerated():
		p.generated = "stored"
	case col.IsVirtualGenerated():
		p.generated = "virtual"
	}
	return p
}

func liveColumnProps(col introspect.Column) columnProps {
	p := columnProps{
		name:    col.Name,
		sqlType: introspect.NormalizeType(col.Type),
		notNull: col.NotNull,
		hasDflt: col.HasDefault(),
		pk:      col.IsPrimaryKey(),
	}
	switch {
	case col.IsStoredGenerated():
		p.generated = "stored"
	case col.IsVirtualGenerated():
		p.generated = "virtual"
	}
	return p
}

// HashDeclared computes the schema hash of the declared table set.
func HashDeclared(tables []*ast.TableDef) (*SchemaHash, error) {
	hashes := make(map[string]*TableHash, len(tables))
	for _, table := range tables {
		props := make([]columnProps, 0, len(table.Columns))
		for _, col := range table.Columns {
			props = append(props, declaredColumnProps(table, col))
		}
		hashes[table.Name] = hashTable(table.Name, props)
	}
	return buildSchemaHash(hashes)
}

// HashLive computes the schema hash of the live counterparts of the given
// tables. A table missing from the database is simply absent from the
// result, which makes the root hashes differ.
func HashLive(ctx context.Context, insp *introspect.Inspector, tableNames []string) (*SchemaHash, error) {
	hashes := make(map[string]*TableHash, len(tableNames))
	for _, name := range tableNames {
		cols, err := insp.TableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			continue
		}
		props := make([]columnProps, 0, len(cols))
		for _, col := range cols {
			props = append(props, liveColumnProps(col))
		}
		hashes[name] = hashTable(name, props)
	}
	return buildSchemaHash(hashes)
}

func hashTable(name string, props []columnProps) *TableHash {
	result := &TableHash{
		Name:    name,
		Columns: make(map[string]string, len(props)),
	}

	// Sorted for determinism; declaration order is irrelevant to drift.
	sort.Slice(props, func(i, j int) bool { return props[i].name < props[j].name })

	parts := make([]string, 0, len(props))
	for _, p := range props {
		h := p.hash()
		result.Columns[p.name] = h
		parts = append(parts, p.name+":"+h)
	}

	result.Hash = hashString(fmt.Sprintf("table:%s|columns:[%s]", name, strings.Join(parts, ",")))
	return result
}

func buildSchemaHash(tables map[string]*TableHash) (*SchemaHash, error) {
	result := &SchemaHash{Tables: tables}

	if len(tables) == 0 {
		result.Root = emptyHash()
		return result, nil
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	contents := make([]merkletree.Content, 0, len(names))
	for _, name := range names {
		contents = append(contents, tableContent{name: name, hash: tables[name].Hash})
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, tberr.Wrap(tberr.ErrIntrospection, err, "failed to build merkle tree")
	}

	result.Root = hex.EncodeToString(tree.MerkleRoot())
	return result, nil
}

func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func emptyHash() string {
	return hashString("empty_schema")
}

// Comparison is the result of comparing declared and live schema hashes.
type Comparison struct {
	Match         bool                  // True when the root hashes agree
	DeclaredRoot  string                // Declared-side root hash
	LiveRoot      string                // Live-side root hash
	MissingTables []string              // Declared but absent from the database
	ExtraTables   []string              // Present in the hash set but not declared
	TableDiffs    map[string]*TableDiff // Tables present on both sides but differing
}

// TableDiff lists column-level differences within one table.
type TableDiff struct {
	Name            string
	MissingColumns  []string // Declared but absent live
	ExtraColumns    []string // Live but not declared
	ModifiedColumns []string // Present on both sides with differing definitions
}

// HasDifferences reports whether the table diff carries any change.
func (d *TableDiff) HasDifferences() bool {
	return len(d.MissingColumns) > 0 || len(d.ExtraColumns) > 0 || len(d.ModifiedColumns) > 0
}

// Compare diffs the declared hash against the live hash. Root equality
// short-circuits; otherwise per-table and per-column drill-down follows.
func Compare(declared, live *SchemaHash) *Comparison {
	result := &Comparison{
		Match:         declared.Root == live.Root,
		DeclaredRoot:  declared.Root,
		LiveRoot:      live.Root,
		MissingTables: []string{},
		ExtraTables:   []string{},
		TableDiffs:    make(map[string]*TableDiff),
	}

	if result.Match {
		return result
	}

	for name := range declared.Tables {
		if _, ok := live.Tables[name]; !ok {
			result.MissingTables = append(result.MissingTables, name)
		}
	}
	sort.Strings(result.MissingTables)

	for name := range live.Tables {
		if _, ok := declared.Tables[name]; !ok {
			result.ExtraTables = append(result.ExtraTables, name)
		}
	}
	sort.Strings(result.ExtraTables)

	for name, declaredTable := range declared.Tables {
		liveTable, ok := live.Tables[name]
		if !ok || declaredTable.Hash == liveTable.Hash {
			continue
		}
		result.TableDiffs[name] = compareTableHashes(declaredTable, liveTable)
	}

	return result
}

func compareTableHashes(declared, live *TableHash) *TableDiff {
	diff := &TableDiff{Name: declared.Name}

	for name, hash := range declared.Columns {
		liveHash, ok := live.Columns[name]
		if !ok {
			diff.MissingColumns = append(diff.MissingColumns, name)
		} else if hash != liveHash {
			diff.ModifiedColumns = append(diff.ModifiedColumns, name)
		}
	}
	for name := range live.Columns {
		if _, ok := declared.Columns[name]; !ok {
			diff.ExtraColumns = append(diff.ExtraColumns, name)
		}
	}

	sort.Strings(diff.MissingColumns)
	sort.Strings(diff.ExtraColumns)
	sort.Strings(diff.ModifiedColumns)

	return diff
}

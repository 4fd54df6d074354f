package tabula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/tabula/internal/drift"
)

// DriftResult summarizes the difference between the declared schema and
// the live database at column granularity.
type DriftResult struct {
	InSync bool // True when the schema hashes match exactly

	DeclaredHash string // Merkle root of the declared schema
	LiveHash     string // Merkle root of the live schema

	MissingTables []string              // Declared but absent from the database
	TableDrift    map[string]TableDrift // Tables that exist but differ
}

// TableDrift lists the drifted columns of one table.
type TableDrift struct {
	MissingColumns  []string // Declared but absent live
	ExtraColumns    []string // Live but not declared
	ModifiedColumns []string // Differ in type, nullability, default presence, or key membership
}

// CheckDrift compares the declared schema against the live database using
// merkle hashes. Pure read; a matching root hash short-circuits without
// any per-table comparison.
func (c *Client) CheckDrift() (*DriftResult, error) {
	ctx, cancel := c.context()
	defer cancel()

	declared, err := drift.HashDeclared(c.tables)
	if err != nil {
		return nil, err
	}
	live, err := drift.HashLive(ctx, c.syncer.Inspector(), c.Tables())
	if err != nil {
		return nil, err
	}

	cmp := drift.Compare(declared, live)
	result := &DriftResult{
		InSync:        cmp.Match,
		DeclaredHash:  cmp.DeclaredRoot,
		LiveHash:      cmp.LiveRoot,
		MissingTables: cmp.MissingTables,
		TableDrift:    make(map[string]TableDrift, len(cmp.TableDiffs)),
	}
	for name, diff := range cmp.TableDiffs {
		result.TableDrift[name] = TableDrift{
			MissingColumns:  diff.MissingColumns,
			ExtraColumns:    diff.ExtraColumns,
			ModifiedColumns: diff.ModifiedColumns,
		}
	}

	return result, nil
}

// FormatDriftResult renders a drift result as human-readable text.
func FormatDriftResult(result *DriftResult) string {
	if result.InSync {
		return "schema is in sync"
	}

	var b strings.Builder
	b.WriteString("schema drift detected\n")

	for _, name := range result.MissingTables {
		fmt.Fprintf(&b, "  missing table: %s\n", name)
	}

	names := make([]string, 0, len(result.TableDrift))
	for name := range result.TableDrift {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		td := result.TableDrift[name]
		fmt.Fprintf(&b, "  table %s:\n", name)
		for _, col := range td.MissingColumns {
			fmt.Fprintf(&b, "    missing column: %s\n", col)
		}
		for _, col := range td.ExtraColumns {
			fmt.Fprintf(&b, "    extra column: %s\n", col)
		}
		for _, col := range td.ModifiedColumns {
			fmt.Fprintf(&b, "    modified column: %s\n", col)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

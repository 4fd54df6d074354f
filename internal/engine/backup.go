package engine

import (
	"context"
	"fmt"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/dialect"
	"github.com/hlop3z/tabula/internal/introspect"
)

// backupTableName probes for an unused shadow-table name: <t>_backup,
// then <t>_backup1, <t>_backup2, incrementing until free. Deterministic
// and idempotent under repeated failed attempts.
func (s *Syncer) backupTableName(ctx context.Context, tableName string) (string, error) {
	base := tableName + "_backup"
	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := s.insp.TableExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, suffix)
	}
}

// recreateWithBackup rebuilds a table while preserving its data:
// create a shadow table with the target schema, copy the shared columns,
// drop the original, rename the shadow into place.
//
// Each step must complete before the next starts. A failure after the
// original has been dropped but before the rename leaves only the shadow
// table under its backup name; this intermediate state is an accepted
// limitation since DDL cannot be wrapped transactionally.
func (s *Syncer) recreateWithBackup(ctx context.Context, table *ast.TableDef, ignore []string) error {
	backupName, err := s.backupTableName(ctx, table.Name)
	if err != nil {
		return err
	}

	live, err := s.insp.TableInfo(ctx, table.Name)
	if err != nil {
		return err
	}

	shadow := *table
	shadow.Name = backupName
	createSQL, err := dialect.CreateTableSQL(&shadow)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, createSQL, "create backup table", backupName); err != nil {
		return err
	}

	columns := copyColumns(table, live, ignore)
	if len(columns) > 0 {
		copySQL, err := dialect.InsertSelectSQL(backupName, table.Name, columns)
		if err != nil {
			return err
		}
		if err := s.exec(ctx, copySQL, "copy rows", table.Name); err != nil {
			return err
		}
	}

	if err := s.exec(ctx, dialect.DropTableSQL(table.Name), "drop table", table.Name); err != nil {
		return err
	}
	return s.exec(ctx, dialect.RenameTableSQL(backupName, table.Name), "rename backup table", table.Name)
}

// copyColumns selects the columns carried over during a backup rebuild:
// present in both the live table and the target schema, not ignored, and
// not generated on either side (generated values are computed, not copied).
func copyColumns(table *ast.TableDef, live []introspect.Column, ignore []string) []string {
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	var columns []string
	for _, liveCol := range live {
		if ignored[liveCol.Name] || liveCol.IsGenerated() {
			continue
		}
		declared := table.GetColumn(liveCol.Name)
		if declared == nil || declared.Generated != nil {
			continue
		}
		columns = append(columns, liveCol.Name)
	}
	return columns
}

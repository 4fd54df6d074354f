package introspect

import (
	"context"
	"testing"

	"github.com/hlop3z/tabula/internal/testutil"
)

func TestTableInfo(t *testing.T) {
	db := testutil.SetupSQLite(t)
	insp := NewInspector(db)
	ctx := context.Background()

	testutil.ExecSQL(t, db, `
		CREATE TABLE "users" (
			"id" INTEGER PRIMARY KEY,
			"name" TEXT NOT NULL,
			"status" TEXT DEFAULT 'draft',
			"upper_name" TEXT GENERATED ALWAYS AS (upper("name")) VIRTUAL,
			"name_len" INTEGER GENERATED ALWAYS AS (length("name")) STORED
		)
	`)

	cols, err := insp.TableInfo(ctx, "users")
	if err != nil {
		t.Fatalf("TableInfo failed: %v", err)
	}
	if len(cols) != 5 {
		t.Fatalf("got %d columns, want 5", len(cols))
	}

	byName := make(map[string]Column, len(cols))
	for _, col := range cols {
		byName[col.Name] = col
	}

	id := byName["id"]
	if !id.IsPrimaryKey() || id.Type != "INTEGER" {
		t.Errorf("id = %+v", id)
	}

	name := byName["name"]
	if !name.NotNull || name.HasDefault() || name.IsGenerated() {
		t.Errorf("name = %+v", name)
	}

	status := byName["status"]
	if !status.HasDefault() || status.DefaultValue.String != "'draft'" {
		t.Errorf("status = %+v", status)
	}

	upperName := byName["upper_name"]
	if !upperName.IsVirtualGenerated() || upperName.IsStoredGenerated() {
		t.Errorf("upper_name = %+v", upperName)
	}

	nameLen := byName["name_len"]
	if !nameLen.IsStoredGenerated() || nameLen.IsVirtualGenerated() {
		t.Errorf("name_len = %+v", nameLen)
	}
}

func TestTableInfoMissingTable(t *testing.T) {
	db := testutil.SetupSQLite(t)
	insp := NewInspector(db)

	cols, err := insp.TableInfo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("TableInfo failed: %v", err)
	}
	if len(cols) != 0 {
		t.Errorf("got %d columns for missing table, want 0", len(cols))
	}
}

func TestTableExists(t *testing.T) {
	db := testutil.SetupSQLite(t)
	insp := NewInspector(db)
	ctx := context.Background()

	testutil.ExecSQL(t, db, `CREATE TABLE "users" ("id" INTEGER PRIMARY KEY)`)

	exists, err := insp.TableExists(ctx, "users")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if !exists {
		t.Error("users should exist")
	}

	exists, err = insp.TableExists(ctx, "missing")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if exists {
		t.Error("missing should not exist")
	}
}

func TestListTables(t *testing.T) {
	db := testutil.SetupSQLite(t)
	insp := NewInspector(db)

	testutil.ExecSQL(t, db, `CREATE TABLE "b_table" ("x" INTEGER)`)
	testutil.ExecSQL(t, db, `CREATE TABLE "a_table" ("x" INTEGER)`)

	tables, err := insp.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(tables) != 2 || tables[0] != "a_table" || tables[1] != "b_table" {
		t.Errorf("tables = %v, want [a_table b_table]", tables)
	}
}

func TestServerVersion(t *testing.T) {
	db := testutil.SetupSQLite(t)
	insp := NewInspector(db)

	version, err := insp.ServerVersion(context.Background())
	if err != nil {
		t.Fatalf("ServerVersion failed: %v", err)
	}
	if version == "" {
		t.Error("expected non-empty version")
	}
}

func TestUserVersion(t *testing.T) {
	db := testutil.SetupSQLite(t)
	insp := NewInspector(db)
	ctx := context.Background()

	version, err := insp.UserVersion(ctx)
	if err != nil {
		t.Fatalf("UserVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("fresh database user_version = %d, want 0", version)
	}

	testutil.ExecSQL(t, db, "PRAGMA user_version = 7")
	version, err = insp.UserVersion(ctx)
	if err != nil {
		t.Fatalf("UserVersion failed: %v", err)
	}
	if version != 7 {
		t.Errorf("user_version = %d, want 7", version)
	}
}

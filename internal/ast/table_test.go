package ast

import (
	"testing"

	"github.com/hlop3z/tabula/internal/tberr"
)

// -----------------------------------------------------------------------------
// Identifier Tests
// -----------------------------------------------------------------------------

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		ident   string
		wantErr bool
	}{
		{"simple", "users", false},
		{"with_underscore", "user_profiles", false},
		{"leading_underscore", "_internal", false},
		{"with_digits", "table2", false},
		{"empty", "", true},
		{"uppercase", "Users", true},
		{"leading_digit", "2users", true},
		{"hyphen", "user-profiles", true},
		{"space", "user profiles", true},
		{"quote_injection", `users"; DROP TABLE x; --`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.ident)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.ident, err, tt.wantErr)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// TableDef Tests
// -----------------------------------------------------------------------------

func TestTableDefGetColumn(t *testing.T) {
	table := &TableDef{
		Name: "users",
		Columns: []*ColumnDef{
			{Name: "id", Type: "integer", PrimaryKey: true},
			{Name: "email", Type: "text"},
		},
	}

	if col := table.GetColumn("email"); col == nil || col.Type != "text" {
		t.Errorf("GetColumn(email) = %v", col)
	}
	if col := table.GetColumn("missing"); col != nil {
		t.Errorf("GetColumn(missing) = %v, want nil", col)
	}
	if !table.HasColumn("id") {
		t.Error("HasColumn(id) = false")
	}
}

func TestTableDefPrimaryKeyColumns(t *testing.T) {
	tests := []struct {
		name  string
		table *TableDef
		want  []string
	}{
		{
			name: "column_level_pk",
			table: &TableDef{
				Name: "users",
				Columns: []*ColumnDef{
					{Name: "id", Type: "integer", PrimaryKey: true},
					{Name: "email", Type: "text"},
				},
			},
			want: []string{"id"},
		},
		{
			name: "composite_pk",
			table: &TableDef{
				Name: "memberships",
				Columns: []*ColumnDef{
					{Name: "user_id", Type: "integer"},
					{Name: "group_id", Type: "integer"},
				},
				PrimaryKey: []string{"user_id", "group_id"},
			},
			want: []string{"user_id", "group_id"},
		},
		{
			name: "no_pk",
			table: &TableDef{
				Name:    "logs",
				Columns: []*ColumnDef{{Name: "line", Type: "text"}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.PrimaryKeyColumns()
			if len(got) != len(tt.want) {
				t.Fatalf("PrimaryKeyColumns() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PrimaryKeyColumns()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTableDefValidate(t *testing.T) {
	tests := []struct {
		name     string
		table    *TableDef
		wantErr  bool
		wantCode tberr.Code
	}{
		{
			name: "valid_simple",
			table: &TableDef{
				Name: "users",
				Columns: []*ColumnDef{
					{Name: "id", Type: "integer", PrimaryKey: true},
					{Name: "email", Type: "text", NotNull: true},
				},
			},
		},
		{
			name: "valid_composite_pk",
			table: &TableDef{
				Name: "memberships",
				Columns: []*ColumnDef{
					{Name: "user_id", Type: "integer"},
					{Name: "group_id", Type: "integer"},
				},
				PrimaryKey: []string{"user_id", "group_id"},
			},
		},
		{
			name: "valid_without_rowid",
			table: &TableDef{
				Name: "kv",
				Columns: []*ColumnDef{
					{Name: "key", Type: "text", PrimaryKey: true},
					{Name: "value", Type: "blob"},
				},
				WithoutRowID: true,
			},
		},
		{
			name:     "missing_name",
			table:    &TableDef{Columns: []*ColumnDef{{Name: "id", Type: "integer"}}},
			wantErr:  true,
			wantCode: tberr.ErrSchemaInvalid,
		},
		{
			name:     "no_columns",
			table:    &TableDef{Name: "empty"},
			wantErr:  true,
			wantCode: tberr.ErrSchemaInvalid,
		},
		{
			name: "duplicate_columns",
			table: &TableDef{
				Name: "users",
				Columns: []*ColumnDef{
					{Name: "id", Type: "integer"},
					{Name: "id", Type: "text"},
				},
			},
			wantErr:  true,
			wantCode: tberr.ErrSchemaDuplicate,
		},
		{
			name: "composite_pk_unknown_column",
			table: &TableDef{
				Name:       "users",
				Columns:    []*ColumnDef{{Name: "id", Type: "integer"}},
				PrimaryKey: []string{"id", "missing"},
			},
			wantErr:  true,
			wantCode: tberr.ErrColumnNotFound,
		},
		{
			name: "composite_pk_conflicts_with_column_flag",
			table: &TableDef{
				Name: "users",
				Columns: []*ColumnDef{
					{Name: "id", Type: "integer", PrimaryKey: true},
					{Name: "tenant", Type: "text"},
				},
				PrimaryKey: []string{"id", "tenant"},
			},
			wantErr:  true,
			wantCode: tberr.ErrSchemaInvalid,
		},
		{
			name: "multiple_column_level_pks",
			table: &TableDef{
				Name: "users",
				Columns: []*ColumnDef{
					{Name: "id", Type: "integer", PrimaryKey: true},
					{Name: "uuid", Type: "text", PrimaryKey: true},
				},
			},
			wantErr:  true,
			wantCode: tberr.ErrSchemaInvalid,
		},
		{
			name: "without_rowid_requires_pk",
			table: &TableDef{
				Name:         "logs",
				Columns:      []*ColumnDef{{Name: "line", Type: "text"}},
				WithoutRowID: true,
			},
			wantErr:  true,
			wantCode: tberr.ErrSchemaInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tberr.GetErrorCode(err) != tt.wantCode {
				t.Errorf("code = %v, want %v", tberr.GetErrorCode(err), tt.wantCode)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// ColumnDef Tests
// -----------------------------------------------------------------------------

func TestColumnDefValidate(t *testing.T) {
	tests := []struct {
		name    string
		col     *ColumnDef
		wantErr bool
	}{
		{
			name: "valid_plain",
			col:  &ColumnDef{Name: "email", Type: "text"},
		},
		{
			name: "valid_with_default",
			col:  &ColumnDef{Name: "active", Type: "boolean", Default: true, DefaultSet: true},
		},
		{
			name: "valid_virtual_generated",
			col: &ColumnDef{
				Name:      "full_name",
				Type:      "text",
				Generated: &GeneratedSpec{Expr: "first_name || ' ' || last_name"},
			},
		},
		{
			name: "valid_stored_generated",
			col: &ColumnDef{
				Name:      "total",
				Type:      "float",
				Generated: &GeneratedSpec{Expr: "price * quantity", Stored: true},
			},
		},
		{
			name:    "missing_name",
			col:     &ColumnDef{Type: "text"},
			wantErr: true,
		},
		{
			name:    "missing_type",
			col:     &ColumnDef{Name: "email"},
			wantErr: true,
		},
		{
			name:    "invalid_identifier",
			col:     &ColumnDef{Name: "Email Address", Type: "text"},
			wantErr: true,
		},
		{
			name:    "generated_without_expr",
			col:     &ColumnDef{Name: "total", Type: "float", Generated: &GeneratedSpec{}},
			wantErr: true,
		},
		{
			name: "generated_with_default",
			col: &ColumnDef{
				Name:       "total",
				Type:       "float",
				Default:    0,
				DefaultSet: true,
				Generated:  &GeneratedSpec{Expr: "price * quantity"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.col.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestColumnDefGeneratedHelpers(t *testing.T) {
	plain := &ColumnDef{Name: "email", Type: "text"}
	virtual := &ColumnDef{Name: "v", Type: "text", Generated: &GeneratedSpec{Expr: "x"}}
	stored := &ColumnDef{Name: "s", Type: "text", Generated: &GeneratedSpec{Expr: "x", Stored: true}}

	if plain.IsStoredGenerated() || plain.IsVirtualGenerated() {
		t.Error("plain column should not be generated")
	}
	if !virtual.IsVirtualGenerated() || virtual.IsStoredGenerated() {
		t.Error("virtual column misclassified")
	}
	if !stored.IsStoredGenerated() || stored.IsVirtualGenerated() {
		t.Error("stored column misclassified")
	}
}

package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/introspect"
)

var (
	dropCaps = introspect.Capabilities{DropColumn: true}
	noCaps   = introspect.Capabilities{}
)

// -----------------------------------------------------------------------------
// PlanTable Tests
// -----------------------------------------------------------------------------

func TestPlanTableMissing(t *testing.T) {
	// A missing table always yields a create, regardless of preserve.
	for _, preserve := range []bool{false, true} {
		result, plan := PlanTable(Diff{}, false, Policy{Preserve: preserve}, dropCaps)
		if result != NewTableCreated {
			t.Errorf("preserve=%v: result = %v, want NewTableCreated", preserve, result)
		}
		if plan.Kind != PlanCreate {
			t.Errorf("preserve=%v: plan = %v, want PlanCreate", preserve, plan.Kind)
		}
	}
}

func TestPlanTableInSync(t *testing.T) {
	result, plan := PlanTable(Diff{}, true, Policy{}, dropCaps)
	if result != AlreadyInSync || plan.Kind != PlanNoOp {
		t.Errorf("got (%v, %v), want (AlreadyInSync, PlanNoOp)", result, plan.Kind)
	}
}

func TestPlanTableIncompatible(t *testing.T) {
	diff := Diff{
		Mismatched:   []string{"name"},
		Incompatible: true,
	}

	t.Run("preserve_uses_backup", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{Preserve: true}, dropCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithBackup {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithBackup)", result, plan.Kind)
		}
		if d := cmp.Diff([]string{"name"}, plan.Ignore); d != "" {
			t.Errorf("Ignore mismatch (-want +got):\n%s", d)
		}
	})

	t.Run("no_preserve_loses_data", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{}, dropCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithLoss {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithLoss)", result, plan.Kind)
		}
	})
}

func TestPlanTableExtraneous(t *testing.T) {
	diff := Diff{Extraneous: []introspect.Column{{Name: "legacy"}}}

	t.Run("drop_column_capability", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{}, dropCaps)
		if result != OldColumnsRemoved || plan.Kind != PlanDropColumns {
			t.Errorf("got (%v, %v), want (OldColumnsRemoved, PlanDropColumns)", result, plan.Kind)
		}
		if d := cmp.Diff([]string{"legacy"}, plan.Drop); d != "" {
			t.Errorf("Drop mismatch (-want +got):\n%s", d)
		}
	})

	t.Run("no_capability_forces_recreate", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{}, noCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithLoss {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithLoss)", result, plan.Kind)
		}
	})

	t.Run("preserve_uses_backup_even_without_capability", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{Preserve: true}, noCaps)
		if result != OldColumnsRemoved || plan.Kind != PlanRecreateWithBackup {
			t.Errorf("got (%v, %v), want (OldColumnsRemoved, PlanRecreateWithBackup)", result, plan.Kind)
		}
		if d := cmp.Diff([]string{"legacy"}, plan.Ignore); d != "" {
			t.Errorf("Ignore mismatch (-want +got):\n%s", d)
		}
	})
}

func TestPlanTableAddColumns(t *testing.T) {
	age := &ast.ColumnDef{Name: "age", Type: "integer"}

	t.Run("nullable_column_is_appendable", func(t *testing.T) {
		result, plan := PlanTable(Diff{ToAdd: []*ast.ColumnDef{age}}, true, Policy{}, dropCaps)
		if result != NewColumnsAdded || plan.Kind != PlanAddColumns {
			t.Errorf("got (%v, %v), want (NewColumnsAdded, PlanAddColumns)", result, plan.Kind)
		}
		if len(plan.Add) != 1 || plan.Add[0].Name != "age" {
			t.Errorf("Add = %v", plan.Add)
		}
	})

	t.Run("defaulted_not_null_is_appendable", func(t *testing.T) {
		col := &ast.ColumnDef{Name: "active", Type: "boolean", NotNull: true, Default: true, DefaultSet: true}
		result, _ := PlanTable(Diff{ToAdd: []*ast.ColumnDef{col}}, true, Policy{}, dropCaps)
		if result != NewColumnsAdded {
			t.Errorf("result = %v, want NewColumnsAdded", result)
		}
	})

	t.Run("virtual_generated_is_appendable", func(t *testing.T) {
		col := &ast.ColumnDef{Name: "upper_name", Type: "text", Generated: &ast.GeneratedSpec{Expr: "upper(name)"}}
		result, _ := PlanTable(Diff{ToAdd: []*ast.ColumnDef{col}}, true, Policy{}, dropCaps)
		if result != NewColumnsAdded {
			t.Errorf("result = %v, want NewColumnsAdded", result)
		}
	})

	t.Run("stored_generated_forces_loss_even_with_preserve", func(t *testing.T) {
		col := &ast.ColumnDef{Name: "total", Type: "float", Generated: &ast.GeneratedSpec{Expr: "a * b", Stored: true}}
		result, plan := PlanTable(Diff{ToAdd: []*ast.ColumnDef{col}}, true, Policy{Preserve: true}, dropCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithLoss {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithLoss)", result, plan.Kind)
		}
	})

	t.Run("not_null_without_default_forces_recreate", func(t *testing.T) {
		col := &ast.ColumnDef{Name: "email", Type: "text", NotNull: true}
		diff := Diff{ToAdd: []*ast.ColumnDef{col}}

		result, plan := PlanTable(diff, true, Policy{}, dropCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithLoss {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithLoss)", result, plan.Kind)
		}

		// Preservation is still attempted for the other columns; the new
		// column simply has no value to carry over.
		result, plan = PlanTable(diff, true, Policy{Preserve: true}, dropCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithBackup {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithBackup)", result, plan.Kind)
		}
	})
}

func TestPlanTableAddAndRemove(t *testing.T) {
	age := &ast.ColumnDef{Name: "age", Type: "integer"}
	diff := Diff{
		ToAdd:      []*ast.ColumnDef{age},
		Extraneous: []introspect.Column{{Name: "legacy"}},
	}

	t.Run("drop_then_add", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{}, dropCaps)
		if result != NewColumnsAddedAndOldColumnsRemoved {
			t.Errorf("result = %v, want NewColumnsAddedAndOldColumnsRemoved", result)
		}
		if plan.Kind != PlanDropColumns {
			t.Errorf("plan = %v, want PlanDropColumns", plan.Kind)
		}
		if len(plan.Drop) != 1 || len(plan.Add) != 1 {
			t.Errorf("plan = %+v, want one drop and one add", plan)
		}
	})

	t.Run("backup_folds_adds_into_target_schema", func(t *testing.T) {
		result, plan := PlanTable(diff, true, Policy{Preserve: true}, dropCaps)
		if result != NewColumnsAddedAndOldColumnsRemoved {
			t.Errorf("result = %v, want NewColumnsAddedAndOldColumnsRemoved", result)
		}
		if plan.Kind != PlanRecreateWithBackup {
			t.Errorf("plan = %v, want PlanRecreateWithBackup", plan.Kind)
		}
		if len(plan.Add) != 0 {
			t.Errorf("backup rebuild should not carry explicit adds: %+v", plan.Add)
		}
	})

	t.Run("recreation_discards_pending_drop", func(t *testing.T) {
		// An incompatible add dominates the pending drop entirely.
		stored := &ast.ColumnDef{Name: "total", Type: "float", Generated: &ast.GeneratedSpec{Expr: "a", Stored: true}}
		mixed := Diff{
			ToAdd:      []*ast.ColumnDef{stored},
			Extraneous: []introspect.Column{{Name: "legacy"}},
		}
		result, plan := PlanTable(mixed, true, Policy{}, dropCaps)
		if result != DroppedAndRecreated || plan.Kind != PlanRecreateWithLoss {
			t.Errorf("got (%v, %v), want (DroppedAndRecreated, PlanRecreateWithLoss)", result, plan.Kind)
		}
		if len(plan.Drop) != 0 || len(plan.Add) != 0 {
			t.Errorf("recreation should discard pending actions: %+v", plan)
		}
	})
}

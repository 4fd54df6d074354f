package engine

import (
	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/introspect"
)

// SyncResult classifies the outcome of reconciling one table.
// Pure classification; the concrete DDL is carried separately in the Plan.
type SyncResult int

const (
	AlreadyInSync SyncResult = iota
	NewTableCreated
	NewColumnsAdded
	OldColumnsRemoved
	NewColumnsAddedAndOldColumnsRemoved
	DroppedAndRecreated
)

func (r SyncResult) String() string {
	switch r {
	case AlreadyInSync:
		return "already in sync"
	case NewTableCreated:
		return "new table created"
	case NewColumnsAdded:
		return "new columns added"
	case OldColumnsRemoved:
		return "old columns removed"
	case NewColumnsAddedAndOldColumnsRemoved:
		return "new columns added and old columns removed"
	case DroppedAndRecreated:
		return "dropped and recreated"
	default:
		return "unknown"
	}
}

// Changed reports whether the outcome implies any DDL was (or would be) run.
func (r SyncResult) Changed() bool {
	return r != AlreadyInSync
}

// PlanKind tags the action plan variant.
type PlanKind int

const (
	PlanNoOp PlanKind = iota
	PlanCreate
	PlanAddColumns
	PlanDropColumns
	PlanRecreateWithLoss
	PlanRecreateWithBackup
)

func (k PlanKind) String() string {
	switch k {
	case PlanNoOp:
		return "no-op"
	case PlanCreate:
		return "create"
	case PlanAddColumns:
		return "add columns"
	case PlanDropColumns:
		return "drop columns"
	case PlanRecreateWithLoss:
		return "recreate with loss"
	case PlanRecreateWithBackup:
		return "recreate with backup"
	default:
		return "unknown"
	}
}

// Plan is the concrete action for one table, produced once per
// reconciliation pass and consumed exactly once by the executor.
type Plan struct {
	Kind PlanKind

	// Add lists columns to append, for PlanAddColumns and for the trailing
	// adds of a PlanDropColumns plan. Declaration order.
	Add []*ast.ColumnDef

	// Drop lists column names to remove, for PlanDropColumns.
	Drop []string

	// Ignore lists columns excluded from the backup copy, for
	// PlanRecreateWithBackup.
	Ignore []string
}

// Policy is the caller-supplied reconciliation policy for one pass.
type Policy struct {
	// Preserve requests that reconciliation avoid data loss even at the
	// cost of a full rebuild via backup-copy-rename.
	Preserve bool
}

// PlanTable decides the outcome and action plan for one table.
// Pure; never fails. First matching rule wins, with one overriding
// tie-break: any reason to recreate discards pending add/drop actions
// and folds everything into the recreation plan.
func PlanTable(diff Diff, tableExists bool, policy Policy, caps introspect.Capabilities) (SyncResult, Plan) {
	if !tableExists {
		return NewTableCreated, Plan{Kind: PlanCreate}
	}

	if diff.Incompatible {
		return DroppedAndRecreated, recreatePlan(policy.Preserve, diff.IgnoreNames())
	}

	// Tentative subtractive action for extraneous columns; may still be
	// discarded if an added column forces recreation below.
	var (
		pending     Plan
		havePending bool
	)
	if len(diff.Extraneous) > 0 {
		switch {
		case policy.Preserve:
			// Preservation is always achievable by copying into a new
			// table, regardless of drop-column support.
			pending = Plan{Kind: PlanRecreateWithBackup, Ignore: diff.ExtraneousNames()}
		case caps.DropColumn:
			pending = Plan{Kind: PlanDropColumns, Drop: diff.ExtraneousNames()}
		default:
			// No way to shed the excess columns without a full rebuild;
			// data loss is accepted because preservation was not requested.
			return DroppedAndRecreated, Plan{Kind: PlanRecreateWithLoss}
		}
		havePending = true
	}

	// An added STORED generated column cannot be appended and cannot be
	// backfilled, so preservation is off the table entirely. An added
	// NOT NULL column without a default forces recreation too, but other
	// columns can still be carried over when preservation was requested.
	for _, col := range diff.ToAdd {
		if col.IsStoredGenerated() {
			return DroppedAndRecreated, Plan{Kind: PlanRecreateWithLoss}
		}
		if col.Generated == nil && col.NotNull && !col.DefaultSet {
			return DroppedAndRecreated, recreatePlan(policy.Preserve, diff.ExtraneousNames())
		}
	}

	switch {
	case len(diff.ToAdd) > 0 && havePending:
		pending.Add = foldAdds(pending, diff.ToAdd)
		return NewColumnsAddedAndOldColumnsRemoved, pending
	case len(diff.ToAdd) > 0:
		return NewColumnsAdded, Plan{Kind: PlanAddColumns, Add: diff.ToAdd}
	case havePending:
		return OldColumnsRemoved, pending
	default:
		return AlreadyInSync, Plan{Kind: PlanNoOp}
	}
}

func recreatePlan(preserve bool, ignore []string) Plan {
	if preserve {
		return Plan{Kind: PlanRecreateWithBackup, Ignore: ignore}
	}
	return Plan{Kind: PlanRecreateWithLoss}
}

// foldAdds attaches appendable columns to a pending subtractive plan.
// A backup recreation already builds the full target schema, so the adds
// are implied and carried only for reporting; a drop plan needs them run
// as trailing ALTER TABLE ADD COLUMN statements.
func foldAdds(pending Plan, toAdd []*ast.ColumnDef) []*ast.ColumnDef {
	if pending.Kind == PlanRecreateWithBackup {
		return nil
	}
	return toAdd
}

package engine

import (
	"context"

	"github.com/hlop3z/tabula/internal/ast"
)

// SyncTable runs one full reconciliation pass for one table: introspect,
// classify, plan, apply. Returns the outcome classification; on a failed
// apply the classification describes what was attempted.
func (s *Syncer) SyncTable(ctx context.Context, table *ast.TableDef, policy Policy) (SyncResult, error) {
	result, plan, err := s.planTable(ctx, table, policy)
	if err != nil {
		return result, err
	}
	if plan.Kind != PlanNoOp {
		s.logf("table %s: %s (%s)", table.Name, result, plan.Kind)
	}
	return result, s.Apply(ctx, table, plan)
}

// SimulateTable classifies one table with zero side effects. The
// classification is identical to what SyncTable would perform against the
// same live state; only introspection errors are possible.
func (s *Syncer) SimulateTable(ctx context.Context, table *ast.TableDef, policy Policy) (SyncResult, error) {
	result, _, err := s.planTable(ctx, table, policy)
	return result, err
}

// planTable is the shared diff-and-plan half of a reconciliation pass.
// The live schema is fetched fresh every time; it may have been altered
// out-of-band since the previous pass.
func (s *Syncer) planTable(ctx context.Context, table *ast.TableDef, policy Policy) (SyncResult, Plan, error) {
	exists, err := s.insp.TableExists(ctx, table.Name)
	if err != nil {
		return AlreadyInSync, Plan{}, err
	}

	var diff Diff
	if exists {
		live, err := s.insp.TableInfo(ctx, table.Name)
		if err != nil {
			return AlreadyInSync, Plan{}, err
		}
		diff = Classify(table, live, s.opts)
	}

	result, plan := PlanTable(diff, exists, policy, s.caps)
	return result, plan, nil
}

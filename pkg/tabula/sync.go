package tabula

import (
	"github.com/hlop3z/tabula/internal/engine"
)

// SyncResult classifies the reconciliation outcome for one table.
type SyncResult = engine.SyncResult

// Reconciliation outcomes.
const (
	AlreadyInSync                       = engine.AlreadyInSync
	NewTableCreated                     = engine.NewTableCreated
	NewColumnsAdded                     = engine.NewColumnsAdded
	OldColumnsRemoved                   = engine.OldColumnsRemoved
	NewColumnsAddedAndOldColumnsRemoved = engine.NewColumnsAddedAndOldColumnsRemoved
	DroppedAndRecreated                 = engine.DroppedAndRecreated
)

// SyncSchema reconciles every declared table against the live database,
// in declaration order, and applies the resulting plans. The preserve
// flag requests that reconciliation avoid data loss even at the cost of
// a full rebuild via backup-copy-rename.
//
// Returns the outcome per table. On error the map holds the outcomes of
// the tables processed so far, including the one that failed; remaining
// tables are not attempted.
func (c *Client) SyncSchema(preserve bool) (map[string]SyncResult, error) {
	return c.syncSchema(preserve, false)
}

// SyncSchemaSimulate classifies every declared table with zero side
// effects. The classifications are identical to what SyncSchema would
// perform against the same live state.
func (c *Client) SyncSchemaSimulate(preserve bool) (map[string]SyncResult, error) {
	return c.syncSchema(preserve, true)
}

func (c *Client) syncSchema(preserve, simulate bool) (map[string]SyncResult, error) {
	ctx, cancel := c.context()
	defer cancel()

	policy := engine.Policy{Preserve: preserve}
	results := make(map[string]SyncResult, len(c.tables))

	for _, table := range c.tables {
		var (
			result SyncResult
			err    error
		)
		if simulate {
			result, err = c.syncer.SimulateTable(ctx, table, policy)
		} else {
			result, err = c.syncer.SyncTable(ctx, table, policy)
		}
		results[table.Name] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

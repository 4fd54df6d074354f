package tabula

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hlop3z/tabula/internal/tberr"
)

// MigrationFunc is a user-supplied data migration step. It runs against
// the live connection; schema changes belong to SyncSchema, so a
// migration typically moves or rewrites row data between versions.
type MigrationFunc func(ctx context.Context, db *sql.DB) error

// migrationKey identifies one registered version transition.
type migrationKey struct {
	from int
	to   int
}

// RegisterMigration registers a data migration for the exact transition
// from one schema version to another. Versions are tracked in the
// database's PRAGMA user_version. Registering the same pair twice
// replaces the earlier function.
//
// Not safe to call concurrently with MigrateTo.
func (c *Client) RegisterMigration(from, to int, fn MigrationFunc) {
	c.migrations[migrationKey{from: from, to: to}] = fn
}

// SchemaVersion returns the database's current schema version
// (PRAGMA user_version).
func (c *Client) SchemaVersion() (int, error) {
	ctx, cancel := c.context()
	defer cancel()
	return c.syncer.Inspector().UserVersion(ctx)
}

// MigrateTo runs registered migrations until the database's schema
// version reaches the target. Each step must match a registered
// (current, next) pair ending at a version no greater than the target;
// among candidates the step reaching furthest is taken. A version with
// no outgoing registered migration fails with a migration-not-found
// error. On each successful step user_version is advanced before the
// next step runs; already being at the target is a no-op.
func (c *Client) MigrateTo(target int) error {
	ctx, cancel := c.context()
	defer cancel()

	current, err := c.syncer.Inspector().UserVersion(ctx)
	if err != nil {
		return err
	}

	for current != target {
		next, fn, ok := c.nextStep(current, target)
		if !ok {
			return tberr.New(tberr.ErrMigrationNotFound, "no registered migration for transition").
				With("from", current).
				With("to", target)
		}

		c.log("migrating %d -> %d", current, next)
		if err := fn(ctx, c.db); err != nil {
			return tberr.Wrapf(tberr.ErrMigrationFailed, err, "migration %d -> %d failed", current, next)
		}
		if err := c.setUserVersion(ctx, next); err != nil {
			return err
		}
		current = next
	}

	return nil
}

// nextStep picks the registered migration starting at current that
// reaches furthest without overshooting the target.
func (c *Client) nextStep(current, target int) (int, MigrationFunc, bool) {
	var (
		best   int
		bestFn MigrationFunc
		found  bool
	)
	for key, fn := range c.migrations {
		if key.from != current {
			continue
		}
		if !stepsToward(current, key.to, target) {
			continue
		}
		if !found || abs(target-key.to) < abs(target-best) {
			best = key.to
			bestFn = fn
			found = true
		}
	}
	return best, bestFn, found
}

// stepsToward reports whether moving from current to next progresses
// toward the target without passing it. Downgrades are supported when
// the target is below the current version.
func stepsToward(current, next, target int) bool {
	if target > current {
		return next > current && next <= target
	}
	return next < current && next >= target
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (c *Client) setUserVersion(ctx context.Context, version int) error {
	// PRAGMA does not accept bound parameters.
	query := fmt.Sprintf("PRAGMA user_version = %d", version)
	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return tberr.WrapSQL(err, "set schema version", "").WithSQL(query)
	}
	return nil
}

package engine

import (
	"context"
	"database/sql"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/dialect"
	"github.com/hlop3z/tabula/internal/introspect"
	"github.com/hlop3z/tabula/internal/tberr"
)

// Logger is the minimal logging interface the engine writes progress to.
// Compatible with the standard library's log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Syncer executes reconciliation plans against a live database.
// One Syncer owns one connection handle; all statements for one table run
// sequentially on it. Fail-fast: the first failing statement aborts the
// rest of the plan and the error is surfaced verbatim, never retried.
type Syncer struct {
	db     *sql.DB
	insp   *introspect.Inspector
	caps   introspect.Capabilities
	opts   Options
	logger Logger
}

// NewSyncer creates a Syncer over an open database handle.
func NewSyncer(db *sql.DB, caps introspect.Capabilities, opts Options, logger Logger) *Syncer {
	return &Syncer{
		db:     db,
		insp:   introspect.NewInspector(db),
		caps:   caps,
		opts:   opts,
		logger: logger,
	}
}

// Inspector exposes the live-schema inspector bound to this Syncer's
// connection.
func (s *Syncer) Inspector() *introspect.Inspector {
	return s.insp
}

func (s *Syncer) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

// exec runs one DDL statement, logging it first.
func (s *Syncer) exec(ctx context.Context, query, op, table string) error {
	s.logf("exec: %s", query)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return tberr.WrapSQL(err, op, table).WithSQL(query)
	}
	return nil
}

// Apply executes an action plan for one table. Statements run in sequence;
// there is no rollback of partially applied plans and no cancellation once
// a statement has started (the context is honored between statements only).
func (s *Syncer) Apply(ctx context.Context, table *ast.TableDef, plan Plan) error {
	switch plan.Kind {
	case PlanNoOp:
		return nil

	case PlanCreate:
		query, err := dialect.CreateTableSQL(table)
		if err != nil {
			return err
		}
		return s.exec(ctx, query, "create table", table.Name)

	case PlanAddColumns:
		return s.addColumns(ctx, table.Name, plan.Add)

	case PlanDropColumns:
		for _, name := range plan.Drop {
			if err := s.exec(ctx, dialect.DropColumnSQL(table.Name, name), "drop column", table.Name); err != nil {
				return err
			}
		}
		return s.addColumns(ctx, table.Name, plan.Add)

	case PlanRecreateWithLoss:
		if err := s.exec(ctx, dialect.DropTableSQL(table.Name), "drop table", table.Name); err != nil {
			return err
		}
		query, err := dialect.CreateTableSQL(table)
		if err != nil {
			return err
		}
		return s.exec(ctx, query, "recreate table", table.Name)

	case PlanRecreateWithBackup:
		return s.recreateWithBackup(ctx, table, plan.Ignore)

	default:
		return tberr.Newf(tberr.ErrSchemaInvalid, "unknown plan kind %d", plan.Kind).
			WithTable(table.Name)
	}
}

func (s *Syncer) addColumns(ctx context.Context, tableName string, cols []*ast.ColumnDef) error {
	for _, col := range cols {
		query, err := dialect.AddColumnSQL(tableName, col)
		if err != nil {
			return err
		}
		if err := s.exec(ctx, query, "add column", tableName); err != nil {
			return err
		}
	}
	return nil
}

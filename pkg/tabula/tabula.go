// Package tabula keeps a live SQLite database consistent with a
// declarative schema. Tables are declared in YAML files or in code; the
// client classifies the difference between the declaration and the live
// schema and applies (or simulates) the minimal-risk DDL to resolve it.
package tabula

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hlop3z/tabula/internal/ast"
	"github.com/hlop3z/tabula/internal/engine"
	"github.com/hlop3z/tabula/internal/introspect"
	"github.com/hlop3z/tabula/internal/schema"
	"github.com/hlop3z/tabula/internal/tberr"
)

// Client is the main entry point.
//
// Example:
//
//	client, err := tabula.New(
//	    tabula.WithDatabasePath("./app.db"),
//	    tabula.WithSchemasDir("./schemas"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	results, err := client.SyncSchema(true)
type Client struct {
	db     *sql.DB
	config *Config
	syncer *engine.Syncer

	// tables is the declared schema in declaration order, resolved once
	// at construction.
	tables []*ast.TableDef

	// migrations is keyed by version pair, populated only via
	// RegisterMigration and never mutated during a migration run.
	migrations map[migrationKey]MigrationFunc
}

// New creates a Client, opens the database, and loads the declared tables.
// At minimum WithDatabasePath and one table source (WithSchemasDir or
// WithTables) must be provided.
func New(opts ...Option) (*Client, error) {
	cfg := &Config{
		Timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.DatabasePath == "" {
		return nil, ErrMissingDatabasePath
	}

	tables, err := loadTables(cfg)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, tberr.Wrap(tberr.ErrSQLConnection, err, "failed to open database").
			With("path", cfg.DatabasePath)
	}
	// Reconciliation runs sequentially on one logical connection.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, tberr.Wrap(tberr.ErrSQLConnection, err, "failed to connect to database").
			With("path", cfg.DatabasePath)
	}

	insp := introspect.NewInspector(db)
	version, err := insp.ServerVersion(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	syncer := engine.NewSyncer(
		db,
		introspect.DetectCapabilities(version),
		engine.Options{CompareDefaultValues: cfg.CompareDefaultValues},
		cfg.Logger,
	)

	return &Client{
		db:         db,
		config:     cfg,
		syncer:     syncer,
		tables:     tables,
		migrations: make(map[migrationKey]MigrationFunc),
	}, nil
}

// loadTables resolves the declared schema: YAML files first (file name
// order), then programmatic tables, with duplicates rejected across both
// sources.
func loadTables(cfg *Config) ([]*ast.TableDef, error) {
	var tables []*ast.TableDef

	if cfg.SchemasDir != "" {
		loaded, err := schema.LoadDir(cfg.SchemasDir)
		if err != nil {
			return nil, err
		}
		tables = loaded
	}

	seen := make(map[string]bool, len(tables))
	for _, table := range tables {
		seen[table.Name] = true
	}

	for _, declared := range cfg.Tables {
		table := declared.toAST()
		if err := table.Validate(); err != nil {
			return nil, err
		}
		if seen[table.Name] {
			return nil, tberr.New(tberr.ErrSchemaDuplicate, "table declared twice").
				WithTable(table.Name)
		}
		seen[table.Name] = true
		tables = append(tables, table)
	}

	return tables, nil
}

// Close releases the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// DB exposes the underlying database handle.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Tables returns the declared table names in declaration order.
func (c *Client) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for _, table := range c.tables {
		names = append(names, table.Name)
	}
	return names
}

// TableExists reports whether a table exists in the live database.
func (c *Client) TableExists(name string) (bool, error) {
	ctx, cancel := c.context()
	defer cancel()
	return c.syncer.Inspector().TableExists(ctx, name)
}

// ServerVersion returns the SQLite library version.
func (c *Client) ServerVersion() (string, error) {
	ctx, cancel := c.context()
	defer cancel()
	return c.syncer.Inspector().ServerVersion(ctx)
}

func (c *Client) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.config.Timeout)
}

func (c *Client) log(format string, v ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Printf(format, v...)
	}
}

package tabula

import (
	"time"
)

// Config holds all configuration options for the Client.
type Config struct {
	// DatabasePath is the path to the SQLite database file, or ":memory:"
	// for an in-memory database.
	DatabasePath string

	// SchemasDir is the path to the directory containing YAML table files.
	// Ignored when empty; tables may instead be supplied with WithTables.
	SchemasDir string

	// Tables declares tables programmatically. Appended after any tables
	// loaded from SchemasDir, in the given order.
	Tables []Table

	// Timeout is the maximum duration for database operations.
	// Default: 30s
	Timeout time.Duration

	// Logger is used for logging operations.
	// If nil, no logging is performed.
	Logger Logger

	// CompareDefaultValues compares default value text during
	// reconciliation, not just default presence. Only reliable for
	// schemas this engine created. Default: false.
	CompareDefaultValues bool
}

// Logger is the interface for logging operations.
// It's compatible with the standard library's log.Logger.
type Logger interface {
	// Printf writes a formatted message to the log.
	Printf(format string, v ...any)
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithDatabasePath sets the SQLite database path.
//
// Examples:
//   - ./app.db
//   - /var/lib/app/app.db
//   - :memory:
func WithDatabasePath(path string) Option {
	return func(c *Config) {
		c.DatabasePath = path
	}
}

// WithSchemasDir sets the path to the YAML schemas directory.
func WithSchemasDir(dir string) Option {
	return func(c *Config) {
		c.SchemasDir = dir
	}
}

// WithTables declares tables programmatically instead of (or in addition
// to) loading them from a schemas directory.
func WithTables(tables ...Table) Option {
	return func(c *Config) {
		c.Tables = append(c.Tables, tables...)
	}
}

// WithTimeout sets the maximum duration for database operations.
// Default: 30s
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithLogger sets the logger for the client.
// Pass nil to disable logging (the default).
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithCompareDefaultValues enables strict default value comparison during
// reconciliation.
func WithCompareDefaultValues(enabled bool) Option {
	return func(c *Config) {
		c.CompareDefaultValues = enabled
	}
}

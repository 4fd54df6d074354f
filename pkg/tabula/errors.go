package tabula

import (
	"errors"

	"github.com/hlop3z/tabula/internal/tberr"
)

// Sentinel errors returned by New.
var (
	// ErrMissingDatabasePath is returned when no database path was provided.
	ErrMissingDatabasePath = errors.New("tabula: database path is required (use WithDatabasePath)")

	// ErrNoTables is returned when neither WithSchemasDir nor WithTables
	// produced any table declarations.
	ErrNoTables = errors.New("tabula: no tables declared (use WithSchemasDir or WithTables)")
)

// ErrorCode extracts the stable error code (e.g. "E4001") from an error
// produced by this package, or "" when the error carries no code.
func ErrorCode(err error) string {
	return string(tberr.GetErrorCode(err))
}

// IsMigrationNotFound reports whether the error means no registered
// migration matches the requested version transition.
func IsMigrationNotFound(err error) bool {
	return tberr.Is(err, tberr.ErrMigrationNotFound)
}

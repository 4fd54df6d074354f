package introspect

import (
	goversion "github.com/hashicorp/go-version"
)

// minDropColumnVersion is the first SQLite release supporting
// ALTER TABLE ... DROP COLUMN.
var minDropColumnVersion = goversion.Must(goversion.NewVersion("3.35.0"))

// Capabilities describes what the connected SQLite library can do.
// Detected once per connection and treated as configuration afterwards.
type Capabilities struct {
	// DropColumn is true when ALTER TABLE ... DROP COLUMN is available.
	DropColumn bool
}

// DetectCapabilities derives Capabilities from a SQLite version string.
// An unparseable version yields the conservative zero value.
func DetectCapabilities(version string) Capabilities {
	v, err := goversion.NewVersion(version)
	if err != nil {
		return Capabilities{}
	}
	return Capabilities{
		DropColumn: v.GreaterThanOrEqual(minDropColumnVersion),
	}
}

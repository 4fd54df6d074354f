// Package main provides the CLI for Tabula, a declarative SQLite schema
// reconciliation tool. Tables are declared in YAML files; tabula keeps the
// live database consistent with the declaration.
//
// Usage:
//
//	tabula init                  # Create schemas/ and tabula.yaml
//	tabula sync                  # Reconcile the database with the declared schema
//	tabula sync --dry-run        # Report what sync would do, change nothing
//	tabula status                # Show database info and per-table status
//	tabula tables                # List declared tables
//	tabula drift                 # Fast drift check via schema hashes
//	tabula watch                 # Re-sync whenever a schema file changes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	databasePath string
	schemasDir   string
	configFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tabula",
		Short:   "Declarative SQLite schema reconciliation",
		Long:    `Tabula keeps a live SQLite database consistent with a declarative schema, without hand-written migration scripts.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&databasePath, "database", "d", "", "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVarP(&schemasDir, "schemas", "s", "", "Path to the schemas directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "tabula.yaml", "Path to config file")

	rootCmd.AddCommand(
		initCmd(),
		syncCmd(),
		statusCmd(),
		tablesCmd(),
		driftCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

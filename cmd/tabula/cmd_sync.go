package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/hlop3z/tabula/pkg/tabula"
)

// syncCmd reconciles the live database with the declared schema.
func syncCmd() *cobra.Command {
	var (
		preserve bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the database with the declared schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			var results map[string]tabula.SyncResult
			if dryRun {
				results, err = client.SyncSchemaSimulate(preserve)
			} else {
				results, err = client.SyncSchema(preserve)
			}
			if err != nil {
				printResults(results)
				return err
			}

			if dryRun {
				printInfo("dry run; no changes applied")
			}
			printResults(results)

			if !dryRun {
				printSuccess("schema synchronized")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&preserve, "preserve", "p", false, "Preserve data across full table rebuilds")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report outcomes without executing DDL")

	return cmd
}

// printResults renders per-table outcomes in a stable order.
func printResults(results map[string]tabula.SyncResult) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := results[name]
		printOutcome(name, result.String(), result == tabula.DroppedAndRecreated)
	}
}

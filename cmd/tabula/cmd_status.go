package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd shows database info and the simulated outcome per table.
func statusCmd() *cobra.Command {
	var preserve bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database info and per-table reconciliation status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			version, err := client.ServerVersion()
			if err != nil {
				return err
			}
			schemaVersion, err := client.SchemaVersion()
			if err != nil {
				return err
			}

			fmt.Printf("sqlite version: %s\n", version)
			fmt.Printf("schema version: %d\n", schemaVersion)
			fmt.Println("tables:")

			results, err := client.SyncSchemaSimulate(preserve)
			if err != nil {
				return err
			}
			printResults(results)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&preserve, "preserve", "p", false, "Simulate with data preservation")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/tabula/pkg/tabula"
)

// driftCmd runs the fast hash-based drift check.
// Exits non-zero when drift is found, for CI use.
func driftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drift",
		Short: "Check for schema drift without reconciling",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.CheckDrift()
			if err != nil {
				return err
			}

			if result.InSync {
				printSuccess("schema is in sync")
				return nil
			}

			fmt.Println(tabula.FormatDriftResult(result))
			os.Exit(1)
			return nil
		},
	}
}

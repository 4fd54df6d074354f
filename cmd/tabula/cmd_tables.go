package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tablesCmd lists the declared tables and whether each exists live.
func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List declared tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			for _, name := range client.Tables() {
				exists, err := client.TableExists(name)
				if err != nil {
					return err
				}
				state := "missing"
				if exists {
					state = "present"
				}
				fmt.Printf("  %s (%s)\n", render(styleTable, name), state)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfig = `# Tabula configuration
database_path: ./app.db
schemas_dir: ./schemas

# Compare default value text during reconciliation, not just presence.
# Only reliable for schemas tabula created.
compare_defaults: false
`

const exampleSchema = `# Example table declaration.
# One file declares one table; file name order is declaration order.
name: users
columns:
  - name: id
    type: integer
    primary_key: true
  - name: email
    type: text
    not_null: true
  - name: created_at
    type: datetime
    default_expr: CURRENT_TIMESTAMP
`

// initCmd scaffolds a tabula project: config file plus schemas directory.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize project structure (tabula.yaml, schemas/)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.SchemasDir, 0o755); err != nil {
				return fmt.Errorf("failed to create schemas directory: %w", err)
			}

			created := false
			if _, err := os.Stat(configFile); os.IsNotExist(err) {
				if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				printInfo("created %s", configFile)
				created = true
			}

			example := filepath.Join(cfg.SchemasDir, "users.yaml")
			if _, err := os.Stat(example); os.IsNotExist(err) {
				if err := os.WriteFile(example, []byte(exampleSchema), 0o644); err != nil {
					return fmt.Errorf("failed to write example schema: %w", err)
				}
				printInfo("created %s", example)
				created = true
			}

			if !created {
				printWarning("project already initialized")
				return nil
			}
			printSuccess("project initialized")
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/tabula/pkg/tabula"
)

// Config represents the tabula.yaml configuration file.
type Config struct {
	DatabasePath    string `yaml:"database_path"`
	SchemasDir      string `yaml:"schemas_dir"`
	CompareDefaults bool   `yaml:"compare_defaults"`
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		SchemasDir: "./schemas",
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.DatabasePath = os.Expand(cfg.DatabasePath, os.Getenv)
	}

	if env := os.Getenv("TABULA_DATABASE"); env != "" && databasePath == "" {
		cfg.DatabasePath = env
	}
	if env := os.Getenv("TABULA_SCHEMAS_DIR"); env != "" && schemasDir == "" {
		cfg.SchemasDir = env
	}

	// CLI flags win.
	if databasePath != "" {
		cfg.DatabasePath = databasePath
	}
	if schemasDir != "" {
		cfg.SchemasDir = schemasDir
	}

	return cfg, nil
}

// newClient creates a tabula client from the resolved configuration.
func newClient() (*tabula.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.DatabasePath == "" {
		return nil, tabula.ErrMissingDatabasePath
	}

	return tabula.New(
		tabula.WithDatabasePath(cfg.DatabasePath),
		tabula.WithSchemasDir(cfg.SchemasDir),
		tabula.WithCompareDefaultValues(cfg.CompareDefaults),
	)
}

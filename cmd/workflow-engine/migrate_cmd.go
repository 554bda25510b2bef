package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/workflow-engine/internal/config"
	"github.com/cuemby/workflow-engine/internal/dbconn"
	"github.com/cuemby/workflow-engine/internal/schema"
)

// migrateCmd applies the bootstrap schema. This is intentionally not a
// full migration framework (no versioning, no rollback) — it exists so
// a fresh database can be made ready for `serve` in one step, the same
// schema.Bootstrap that `serve` itself runs on startup.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the bootstrap schema to the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		ctx := context.Background()
		db, err := dbconn.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("migrate: open database: %w", err)
		}
		defer db.Close()

		if err := schema.Bootstrap(ctx, db.SQL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		fmt.Println("schema bootstrap complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

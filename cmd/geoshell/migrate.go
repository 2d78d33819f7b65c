package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"geoshell/internal/platform/postgres"
	"geoshell/internal/storage"
)

func newMigrateCmd(opts *options) *cobra.Command {
	var seedPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and optionally load a YAML dataset",
		Long: `migrate applies the embedded schema to the configured Postgres database.
It is safe to run repeatedly. With --seed, the dataset is inserted and rows
that already exist are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("migrate needs a postgres driver, got %q", cfg.Database.Driver)
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			if seedPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			}
			tables, err := storage.LoadTablesFile(seedPath)
			if err != nil {
				return err
			}
			if err := postgres.Seed(ctx, db, tables); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date, seeded from %s\n", seedPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML dataset to insert after migrating")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/receipthub/backend-receipt/internal/db"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireDB(); err != nil {
				return err
			}
			if err := db.MigrateUp(opts.dbURL); err != nil {
				return err
			}
			opts.logger.Info().Msg("migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireDB(); err != nil {
				return err
			}
			if err := db.MigrateDown(opts.dbURL, steps); err != nil {
				return err
			}
			opts.logger.Info().Int("steps", steps).Msg("migrations rolled back")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back (0 rolls back everything)")

	cmd.AddCommand(up, down)
	return cmd
}

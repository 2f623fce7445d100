package cmd

import (
	"errors"
	"fmt"

	"yamdb/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidSteps = errors.New("--steps must be greater than zero")

func newMigrateCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  "Apply or roll back the SQL migrations embedded in the binary.",
	}

	var steps int

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(global, "up", func(url string) error {
				return database.MigrateUp(url)
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return errInvalidSteps
			}
			return runMigration(global, "down", func(url string) error {
				return database.MigrateDown(url, steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func runMigration(global *globalOptions, direction string, apply func(url string) error) error {
	config, logger, err := bootstrap(global)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	url := config.Database.URL()
	if err := apply(url); err != nil {
		return err
	}

	version, dirty, err := database.MigrationVersion(url)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}

	logger.Info("Migrations applied",
		zap.String("direction", direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

package cmd

import (
	"fmt"

	"yamdb/internal/data/repository"
	"yamdb/internal/importer"
	"yamdb/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCommand(global *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Load the CSV fixtures into the database",
		Long: `Load category, genre, users, titles, genre_title, review and comments
CSV files from a directory. Rows whose id already exists are skipped, so the
command can be re-run safely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap(global)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if path == "" {
				path = config.Import.CSVPath
			}

			db, err := database.InitDB(config.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			repos := repository.NewRepository(db, logger)

			summaries, err := importer.New(repos.Import, path, logger).Run(cmd.Context())
			if err != nil {
				logger.Error("CSV import failed", zap.String("path", path), zap.Error(err))
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range summaries {
				fmt.Fprintf(out, "%-16s rows=%d inserted=%d\n", s.File, s.Rows, s.Inserted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "directory with the CSV files (overrides IMPORT_CSV_PATH)")
	return cmd
}

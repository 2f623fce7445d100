package cmd

import (
	"fmt"
	"os"

	"yamdb/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	envFile string
	debug   bool
}

func newRootCommand() *cobra.Command {
	global := &globalOptions{}
	serve := &serveOptions{}

	root := &cobra.Command{
		Use:   "yamdb",
		Short: "YaMDb - reviews and ratings for films, books and music",
		Long: `YaMDb collects user reviews of titles (films, books, music) and
computes an average rating per title.

Without a subcommand the HTTP API is started, same as "yamdb serve".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, global, serve)
		},
	}

	root.PersistentFlags().StringVar(&global.envFile, "env-file", ".env", "dotenv file to read (optional, environment variables win)")
	root.PersistentFlags().BoolVar(&global.debug, "debug", false, "force debug logging regardless of DEBUG")

	root.AddCommand(
		newServeCommand(global, serve),
		newMigrateCommand(global),
		newImportCommand(global),
	)

	return root
}

// bootstrap loads configuration and the logger for a subcommand.
func bootstrap(global *globalOptions) (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig(global.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if global.debug {
		config.App.Debug = true
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v. Using production defaults.\n", err)
		if logger, err = zap.NewProduction(); err != nil {
			return nil, nil, fmt.Errorf("init logger: %w", err)
		}
	}

	return config, logger, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/internal/data/repository"
	"yamdb/internal/wire"
	"yamdb/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	port    string
	migrate bool
}

func newServeCommand(global *globalOptions, opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the YaMDb HTTP API under /api/v1.

The server exposes /health for liveness checks and /metrics for Prometheus.
SIGINT or SIGTERM drains in-flight requests before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	config, logger, err := bootstrap(global)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if opts.port != "" {
		config.App.Port = opts.port
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if opts.migrate {
		if err := database.MigrateUp(config.Database.URL()); err != nil {
			return err
		}
		logger.Info("Migrations applied")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	app, err := wire.Wiring(repos, db, config, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return serveUntilSignal(cmd.Context(), server, logger)
}

// serveUntilSignal runs the listener until SIGINT/SIGTERM or a listener
// failure, then drains in-flight requests.
func serveUntilSignal(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
			return err
		}

		logger.Info("Server stopped")
		return nil
	})

	return g.Wait()
}

package wire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/auth"
	"yamdb/pkg/mailer"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Pinger reports database liveness for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	tokens   middleware.TokenValidator
	users    middleware.UserFinder
	registry *prometheus.Registry
	db       Pinger
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, db Pinger, config *utils.Config, logger *zap.Logger) (*App, error) {
	tokens := auth.NewJWTManager(
		config.JWT.Secret,
		time.Duration(config.JWT.ExpiryHours)*time.Hour,
		config.JWT.Issuer,
	)

	mail, err := mailer.New(config.Email.Provider, config.Email.ResendAPIKey, config.Email.From, logger)
	if err != nil {
		return nil, fmt.Errorf("init mailer: %w", err)
	}

	service := usecase.NewService(repo, tokens, mail, config, logger)
	handler := adaptor.NewHandler(service, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := setupRouter(handler, routerDeps{
		tokens:   tokens,
		users:    repo.User,
		registry: registry,
		db:       db,
	}, config, logger)

	return &App{
		Router: router,
	}, nil
}

// setupRouter configures the chi router
func setupRouter(handler *adaptor.Handler, deps routerDeps, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	metrics := middleware.NewMetrics(deps.registry)

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(metrics.Handler)
	r.Use(middleware.CORS(config.HTTP.AllowedOrigins))
	r.Use(chimiddleware.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.tokens, deps.users, logger))

		wireAuth(r, handler.Auth, config)
		wireUser(r, handler.User, logger)
		wireCatalogue(r, handler.Category, handler.Genre, logger)
		wireTitle(r, handler.Title, logger)
		wireReview(r, handler.Review, handler.Comment)
	})

	r.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if deps.db != nil {
			if err := deps.db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}

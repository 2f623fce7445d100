package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, config *utils.Config) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(config.HTTP.RateLimitRequests, config.HTTP.RateLimitWindow))

		r.Post("/signup", authHandler.Signup)
		r.Post("/token", authHandler.Token)
	})
}

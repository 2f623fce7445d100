package wire

import (
	"net/http"

	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, log *zap.Logger) {
	r.Route("/users", func(r chi.Router) {
		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateMe)
			// "me" is reserved and must not reach /{username}
			r.Delete("/me", func(w http.ResponseWriter, _ *http.Request) {
				utils.ResponseMethodNotAllowed(w)
			})
		})

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(log))

			r.Get("/", userHandler.GetAllUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{username}", userHandler.GetUser)
			r.Patch("/{username}", userHandler.UpdateUser)
			r.Delete("/{username}", userHandler.DeleteUser)
		})
	})
}

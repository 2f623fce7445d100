package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTitle(r chi.Router, titleHandler *adaptor.TitleHandler, log *zap.Logger) {
	admin := middleware.RequireAdmin(log)

	// ==================== PUBLIC ROUTES ====================
	r.Get("/titles", titleHandler.GetAllTitles)
	r.Get("/titles/{title_id}", titleHandler.GetTitle)

	// ==================== ADMIN ROUTES ====================
	r.With(admin).Post("/titles", titleHandler.CreateTitle)
	r.With(admin).Patch("/titles/{title_id}", titleHandler.UpdateTitle)
	r.With(admin).Delete("/titles/{title_id}", titleHandler.DeleteTitle)
}

package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalogue(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	genreHandler *adaptor.GenreHandler,
	log *zap.Logger,
) {
	admin := middleware.RequireAdmin(log)

	// ==================== PUBLIC ROUTES ====================
	r.Get("/categories", categoryHandler.GetAllCategories)
	r.Get("/genres", genreHandler.GetAllGenres)

	// ==================== ADMIN ROUTES ====================
	r.With(admin).Post("/categories", categoryHandler.CreateCategory)
	r.With(admin).Delete("/categories/{slug}", categoryHandler.DeleteCategory)
	r.With(admin).Post("/genres", genreHandler.CreateGenre)
	r.With(admin).Delete("/genres/{slug}", genreHandler.DeleteGenre)
}

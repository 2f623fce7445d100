package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// GetAllCategories handles GET /api/v1/categories (public)
func (h *CategoryHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAllCategories(r.Context(), searchFromQuery(r.URL.Query()))
	if err != nil {
		handleServiceError(h.log, w, err, "get categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// CreateCategory handles POST /api/v1/categories (admin only)
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create category")
		return
	}

	utils.ResponseCreated(w, "success", category)
}

// DeleteCategory handles DELETE /api/v1/categories/{slug} (admin only)
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(h.log, w, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}

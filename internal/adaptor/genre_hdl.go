package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

func (h *GenreHandler) GetAllGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetAllGenres(r.Context(), searchFromQuery(r.URL.Query()))
	if err != nil {
		handleServiceError(h.log, w, err, "get genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "success", genre)
}

func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGenre(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(h.log, w, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}

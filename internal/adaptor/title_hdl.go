package adaptor

import (
	"net/http"
	"strconv"
	"strings"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetAllTitles handles GET /api/v1/titles (public)
func (h *TitleHandler) GetAllTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.TitleListRequest{
		PaginatedRequest: paginationFromQuery(query),
		Category:         strings.TrimSpace(query.Get("category")),
		Genre:            strings.TrimSpace(query.Get("genre")),
		Name:             strings.TrimSpace(query.Get("name")),
	}

	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "Enter a whole number"})
			return
		}
		req.Year = &year
	}

	titles, err := h.service.GetAllTitles(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitle handles GET /api/v1/titles/{title_id} (public)
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}

	title, err := h.service.GetTitle(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// CreateTitle handles POST /api/v1/titles (admin only)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create title")
		return
	}

	utils.ResponseCreated(w, "success", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{title_id} (admin only)
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}

	var req request.UpdateTitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{title_id} (admin only)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}

	if err := h.service.DeleteTitle(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}

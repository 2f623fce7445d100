package adaptor

import (
	"errors"
	"net/http"
	"net/url"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Category: NewCategoryHandler(service.Category, log),
		Genre:    NewGenreHandler(service.Genre, log),
		Title:    NewTitleHandler(service.Title, log),
		Review:   NewReviewHandler(service.Review, log),
		Comment:  NewCommentHandler(service.Comment, log),
	}
}

// ==================== HELPER METHODS ====================

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// pathID parses a numeric URL parameter. Anything else is an unknown resource.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := utils.ParseID(chi.URLParam(r, name))
	if !ok {
		utils.ResponseNotFound(w, "Not found")
		return 0, false
	}
	return id, true
}

// principal returns the caller set by the auth middleware.
func principal(w http.ResponseWriter, r *http.Request) (utils.Principal, bool) {
	p, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
		return utils.Principal{}, false
	}
	return p, true
}

func paginationFromQuery(query url.Values) request.PaginatedRequest {
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

func searchFromQuery(query url.Values) *request.SearchRequest {
	return &request.SearchRequest{
		PaginatedRequest: paginationFromQuery(query),
		Search:           query.Get("search"),
	}
}

// handleServiceError maps service errors onto the response envelope.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Any("fields", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, usecase.ErrForbidden.Error())

	case errors.Is(err, usecase.ErrInvalidCode):
		log.Warn(operation+" failed - invalid code", zap.Error(err))
		utils.ResponseBadRequest(w, usecase.ErrInvalidCode.Error(), map[string]string{
			"confirmation_code": usecase.ErrInvalidCode.Error(),
		})

	case errors.Is(err, usecase.ErrInactive):
		log.Warn(operation+" failed - account deactivated", zap.Error(err))
		utils.ResponseForbidden(w, usecase.ErrInactive.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

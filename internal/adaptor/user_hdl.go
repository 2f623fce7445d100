package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), p.UserID)
	if err != nil {
		handleServiceError(h.log, w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateMe handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), p.UserID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// GetAllUsers handles GET /api/v1/users (admin only)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context(), searchFromQuery(r.URL.Query()))
	if err != nil {
		handleServiceError(h.log, w, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// CreateUser handles POST /api/v1/users (admin only)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create user")
		return
	}

	utils.ResponseCreated(w, "User created successfully", user)
}

// GetUser handles GET /api/v1/users/{username} (admin only)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(h.log, w, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// UpdateUser handles PATCH /api/v1/users/{username} (admin only)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "username"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/v1/users/{username} (admin only)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.service.DeleteUser(r.Context(), username); err != nil {
		handleServiceError(h.log, w, err, "delete user")
		return
	}

	h.log.Info("User deleted", zap.String("username", username))
	utils.ResponseNoContent(w)
}

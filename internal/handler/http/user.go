package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SampritiSC2/react-proshop/internal/service"
	"github.com/SampritiSC2/react-proshop/pkg/httputil"
	"github.com/SampritiSC2/react-proshop/pkg/pagination"
	"github.com/SampritiSC2/react-proshop/pkg/validator"
)

// UserHandler handles profile and admin user management endpoints.
type UserHandler struct {
	service  *service.UserService
	pageSize int
	writer   *httputil.Writer
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, pageSize int, writer *httputil.Writer) *UserHandler {
	return &UserHandler{service: svc, pageSize: pageSize, writer: writer}
}

// UpdateProfileRequest is the JSON request body for a profile update.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// UpdateUserRequest is the JSON request body for an admin user update.
type UpdateUserRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	IsAdmin *bool   `json:"isAdmin"`
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	profile, err := h.service.GetProfile(r.Context(), user.ID)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, service.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, updated)
}

// ListUsers handles GET /api/users (admin)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	requester := UserFromContext(r.Context())
	params := pagination.FromRequest(r, h.pageSize)

	users, pages, err := h.service.ListUsers(r.Context(), requester.ID, params)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, map[string]any{
		"users": users,
		"page":  params.Page,
		"pages": pages,
	})
}

// GetUser handles GET /api/users/{id} (admin)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/{id} (admin)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), service.UpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /api/users/{id} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.writer.JSON(w, http.StatusOK, map[string]string{"message": "User removed"})
}

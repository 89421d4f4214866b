package http

import (
	"net/http"

	"github.com/SampritiSC2/react-proshop/internal/auth"
	"github.com/SampritiSC2/react-proshop/internal/service"
	"github.com/SampritiSC2/react-proshop/pkg/httputil"
	"github.com/SampritiSC2/react-proshop/pkg/validator"
)

// AuthHandler handles registration, login, and logout. Sessions live in an
// HTTP-only cookie; response bodies never include the token.
type AuthHandler struct {
	service *service.UserService
	cookies *auth.CookieWriter
	writer  *httputil.Writer
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, cookies *auth.CookieWriter, writer *httputil.Writer) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, writer: writer}
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	user, token, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.cookies.Set(w, token)
	h.writer.JSON(w, http.StatusCreated, user)
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	h.cookies.Set(w, token)
	h.writer.JSON(w, http.StatusOK, user)
}

// Logout handles POST /api/users/logout. The session cookie is overwritten
// with an expired empty one; the token itself stays valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	h.writer.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

package handler

import (
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/domain/services"
	"portfolio/internal/httputil"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	service services.AuthService
	errs    ErrorPolicy
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service services.AuthService, errs ErrorPolicy) *AuthHandler {
	return &AuthHandler{service: service, errs: errs}
}

// Register creates an account
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !parseBody(w, r, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.errs.handleError(w, r, err, "Error registering user")
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "User registered successfully", httputil.Envelope{
		"token": res.Token,
		"user":  res.User,
	})
}

// Login exchanges credentials for a token
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !parseBody(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.errs.handleError(w, r, err, "Error logging in")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Login successful", httputil.Envelope{
		"token": res.Token,
		"user":  res.User,
	})
}

// Logout acknowledges a logout. Tokens are stateless; the client drops its copy.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, "Logout successful", nil)
}

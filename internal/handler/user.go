package handler

import (
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/domain/services"
	"portfolio/internal/httputil"
)

// UserHandler serves the caller's own profile
type UserHandler struct {
	service services.UserService
	errs    ErrorPolicy
}

// NewUserHandler creates a new user handler
func NewUserHandler(service services.UserService, errs ErrorPolicy) *UserHandler {
	return &UserHandler{service: service, errs: errs}
}

type updateUserBody struct {
	FullName httputil.OptionalString `json:"fullName"`
	Phone    httputil.OptionalString `json:"phone"`
}

// GetProfile returns the authenticated user
// GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), httputil.GetUserID(r))
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching user profile")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"user": user.Profile()})
}

// UpdateProfile overwrites fullName and/or phone. null clears a field.
// PUT /api/user/update
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body updateUserBody
	if !parseBody(w, r, &body) {
		return
	}

	req := &models.UpdateUserRequest{
		FullName: optionalString(body.FullName),
		Phone:    optionalString(body.Phone),
	}
	user, err := h.service.UpdateProfile(r.Context(), httputil.GetUserID(r), req)
	if err != nil {
		h.errs.handleError(w, r, err, "Error updating user details")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "User details updated successfully", httputil.Envelope{"user": user.Profile()})
}

// optionalString maps the wire tri-state to the domain one; null becomes "".
func optionalString(o httputil.OptionalString) models.Optional[string] {
	if !o.Present {
		return models.Optional[string]{}
	}
	if o.Value == nil {
		return models.Some("")
	}
	return models.Some(*o.Value)
}

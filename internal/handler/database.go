package handler

import (
	"net/http"

	"portfolio/internal/domain/services"
	"portfolio/internal/httputil"
)

// DatabaseHandler serves the admin database viewer
type DatabaseHandler struct {
	service services.DatabaseService
	errs    ErrorPolicy
}

// NewDatabaseHandler creates a new database viewer handler
func NewDatabaseHandler(service services.DatabaseService, errs ErrorPolicy) *DatabaseHandler {
	return &DatabaseHandler{service: service, errs: errs}
}

// ListUsers returns every user with store metadata
// GET /api/database/users
func (h *DatabaseHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching users from database")
		return
	}
	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"users": users, "count": len(users)})
}

// GetUser returns one user
// GET /api/database/users/{id}
func (h *DatabaseHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching user details")
		return
	}
	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"user": user})
}

// ListCaseStudies returns every case study regardless of status
// GET /api/database/case-studies
func (h *DatabaseHandler) ListCaseStudies(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCaseStudies(r.Context())
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching case studies from database")
		return
	}
	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"caseStudies": list, "count": len(list)})
}

// GetCaseStudy returns one case study
// GET /api/database/case-studies/{id}
func (h *DatabaseHandler) GetCaseStudy(w http.ResponseWriter, r *http.Request) {
	cs, err := h.service.GetCaseStudy(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching case study details")
		return
	}
	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"caseStudy": cs})
}

// Overview summarizes both databases
// GET /api/database/overview
func (h *DatabaseHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching database overview")
		return
	}
	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"overview": overview})
}

package handler

import (
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/domain/services"
	"portfolio/internal/httputil"
	"portfolio/internal/render"
)

// CaseStudyHandler handles /api/case-studies
type CaseStudyHandler struct {
	service  services.CaseStudyService
	renderer *render.Renderer
	errs     ErrorPolicy
}

// NewCaseStudyHandler creates a new case study handler
func NewCaseStudyHandler(service services.CaseStudyService, renderer *render.Renderer, errs ErrorPolicy) *CaseStudyHandler {
	return &CaseStudyHandler{service: service, renderer: renderer, errs: errs}
}

type updateCaseStudyBody struct {
	Name           httputil.OptionalString  `json:"name"`
	ProjectDetails httputil.OptionalString  `json:"projectDetails"`
	Tags           httputil.OptionalStrings `json:"tags"`
	CoverImage     httputil.OptionalCover   `json:"coverImage"`
	Status         httputil.OptionalString  `json:"status"`
}

func (b *updateCaseStudyBody) toRequest() *models.UpdateCaseStudyRequest {
	req := &models.UpdateCaseStudyRequest{
		Name:           optionalString(b.Name),
		ProjectDetails: optionalString(b.ProjectDetails),
		Status:         optionalString(b.Status),
	}
	if b.Tags.Present {
		tags := []string{}
		if b.Tags.Value != nil {
			tags = *b.Tags.Value
		}
		req.Tags = models.Some(tags)
	}
	if b.CoverImage.Present {
		var cover *models.CoverImage
		if v := b.CoverImage.Value; v != nil {
			cover = &models.CoverImage{URL: v.URL, Name: v.Name}
		}
		req.CoverImage = models.Some(cover)
	}
	return req
}

// ListCaseStudies returns published case studies
// GET /api/case-studies
func (h *CaseStudyHandler) ListCaseStudies(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching case studies")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"caseStudies": list})
}

// GetCaseStudy returns one case study, with its block tree when
// includeContent=true
// GET /api/case-studies/{id}
func (h *CaseStudyHandler) GetCaseStudy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		cs  interface{}
		err error
	)
	if httputil.QueryBool(r, "includeContent") {
		cs, err = h.service.GetWithContent(r.Context(), id)
	} else {
		cs, err = h.service.GetCaseStudy(r.Context(), id)
	}
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching case study")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{"caseStudy": cs})
}

// RenderCaseStudy returns the case study with its content as display
// nodes and sanitized HTML
// GET /api/case-studies/{id}/render
func (h *CaseStudyHandler) RenderCaseStudy(w http.ResponseWriter, r *http.Request) {
	cs, err := h.service.GetWithContent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.handleError(w, r, err, "Error fetching case study")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", httputil.Envelope{
		"caseStudy": cs.CaseStudy,
		"nodes":     render.Blocks(cs.Blocks),
		"html":      h.renderer.Render(cs.Blocks),
	})
}

// CreateCaseStudy adds a case study
// POST /api/case-studies
func (h *CaseStudyHandler) CreateCaseStudy(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCaseStudyRequest
	if !parseBody(w, r, &req) {
		return
	}

	cs, err := h.service.CreateCaseStudy(r.Context(), &req)
	if err != nil {
		h.errs.handleError(w, r, err, "Error creating case study")
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "Case study created successfully", httputil.Envelope{"caseStudy": cs})
}

// UpdateCaseStudy overwrites only the fields present in the body
// PUT /api/case-studies/{id}
func (h *CaseStudyHandler) UpdateCaseStudy(w http.ResponseWriter, r *http.Request) {
	var body updateCaseStudyBody
	if !parseBody(w, r, &body) {
		return
	}

	cs, err := h.service.UpdateCaseStudy(r.Context(), r.PathValue("id"), body.toRequest())
	if err != nil {
		h.errs.handleError(w, r, err, "Error updating case study")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Case study updated successfully", httputil.Envelope{"caseStudy": cs})
}

// DeleteCaseStudy archives a case study
// DELETE /api/case-studies/{id}
func (h *CaseStudyHandler) DeleteCaseStudy(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCaseStudy(r.Context(), r.PathValue("id")); err != nil {
		h.errs.handleError(w, r, err, "Error deleting case study")
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Case study deleted successfully", nil)
}

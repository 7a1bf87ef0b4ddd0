package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"portfolio/internal/domain"
	"portfolio/internal/httputil"
)

// MsgInvalidBody is returned for bodies that are not valid JSON
const MsgInvalidBody = "Invalid request body"

// ErrorPolicy controls how failures reach the caller.
type ErrorPolicy struct {
	Logger *slog.Logger
	// ExposeDetails adds the underlying error text to 500 responses.
	ExposeDetails bool
}

// handleError converts domain errors to HTTP responses. Domain errors keep
// their own message; anything else is logged and answered with fallback.
func (p ErrorPolicy) handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var httpErr domain.HTTPError
	switch {
	case errors.As(err, &httpErr):
		httputil.RespondFailure(w, httpErr.StatusCode(), httpErr.Error(), "")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondFailure(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondFailure(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondFailure(w, http.StatusUnauthorized, err.Error(), "")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondFailure(w, http.StatusForbidden, err.Error(), "")
	default:
		p.Logger.Error(fallback,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r),
		)
		detail := ""
		if p.ExposeDetails {
			detail = err.Error()
		}
		httputil.RespondFailure(w, http.StatusInternalServerError, fallback, detail)
	}
}

// parseBody decodes JSON into dest. An empty body leaves dest zero-valued
// so the service can report what is missing.
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	err := httputil.ParseJSON(w, r, dest)
	if err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		httputil.RespondFailure(w, http.StatusBadRequest, MsgInvalidBody, "")
		return false
	}
	return true
}

package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON marshals data before writing headers so an encoding failure
// never leaves a half-written 200 behind.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		writeProblem(w, problem(http.StatusInternalServerError, "failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// Envelope carries the data fields of a success response.
type Envelope map[string]interface{}

// RespondSuccess writes {success:true, message?, ...data}.
func RespondSuccess(w http.ResponseWriter, status int, message string, data Envelope) {
	body := make(Envelope, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	RespondJSON(w, status, body)
}

// RespondFailure writes an RFC 7807 problem that also carries the
// {success:false, message, error?} fields the web client reads. cause is
// included only when non-empty.
func RespondFailure(w http.ResponseWriter, status int, message, cause string) {
	p := problem(status, message)
	p["success"] = false
	p["message"] = message
	if cause != "" {
		p["error"] = cause
	}
	writeProblem(w, p)
}

// problem builds the RFC 7807 members for status.
func problem(status int, detail string) Envelope {
	p := Envelope{
		"type":   problemType(status),
		"title":  http.StatusText(status),
		"status": status,
	}
	if detail != "" {
		p["detail"] = detail
	}
	return p
}

func writeProblem(w http.ResponseWriter, p Envelope) {
	status, _ := p["status"].(int)
	payload, err := json.Marshal(p)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.1",
	http.StatusUnauthorized:        "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.2",
	http.StatusForbidden:           "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.4",
	http.StatusNotFound:            "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.5",
	http.StatusConflict:            "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.10",
	http.StatusUnprocessableEntity: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.21",
	http.StatusTooManyRequests:     "https://datatracker.ietf.org/doc/html/rfc6585#section-4",
	http.StatusInternalServerError: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.1",
}

func problemType(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/httputil"
	"portfolio/internal/metrics"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeVerifier struct {
	valid map[string]*models.Claims
	calls int
}

func (f *fakeVerifier) VerifyToken(token string) (*models.Claims, error) {
	f.calls++
	if c, ok := f.valid[token]; ok {
		return c, nil
	}
	return nil, domain.ErrUnauthorized
}

func (f *fakeVerifier) Close() error { return nil }

func echoUser(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"userId": httputil.GetUserID(r),
		"email":  httputil.GetUserEmail(r),
	})
}

func TestAuthMiddleware(t *testing.T) {
	verifier := &fakeVerifier{valid: map[string]*models.Claims{
		"good": {UserID: "u1", Email: "a@example.com"},
	}}
	public := PublicPaths("POST /api/auth/login", "/health")
	h := AuthMiddleware(verifier, public, discard)(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "missing", method: "GET", path: "/api/user/profile", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", method: "GET", path: "/api/user/profile", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid", method: "GET", path: "/api/user/profile", header: "Bearer bad", wantStatus: http.StatusForbidden},
		{name: "valid", method: "GET", path: "/api/user/profile", header: "Bearer good", wantStatus: http.StatusOK, wantUser: "u1"},
		{name: "public by method", method: "POST", path: "/api/auth/login", wantStatus: http.StatusOK},
		{name: "public any method", method: "GET", path: "/health", wantStatus: http.StatusOK},
		{name: "login is not public for GET", method: "GET", path: "/api/auth/login", wantStatus: http.StatusUnauthorized},
		{name: "preflight", method: "OPTIONS", path: "/api/case-studies", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantUser, body["userId"])
				assert.Equal(t, "a@example.com", body["email"])
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	abort := Recovery(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		abort.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}

func TestLogging_RequestIDAndMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := Logging(discard, m, func(*http.Request) string { return "GET /things" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, httputil.GetRequestID(r))
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/things", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "GET /things", "418")))

	req := httptest.NewRequest("GET", "/things", nil)
	req.Header.Set(RequestIDHeader, "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	l := NewIPRateLimiter(2)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	h := RateLimit(l, PublicPaths("POST /api/auth/login"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(path, addr string) int {
		req := httptest.NewRequest("POST", path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("/api/auth/login", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, do("/api/auth/login", "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/auth/login", "10.0.0.1:1002"))

	// Other clients and other routes are unaffected.
	assert.Equal(t, http.StatusNoContent, do("/api/auth/login", "10.0.0.2:1000"))
	assert.Equal(t, http.StatusNoContent, do("/api/case-studies", "10.0.0.1:1003"))

	clock = clock.Add(time.Minute)
	assert.Equal(t, http.StatusNoContent, do("/api/auth/login", "10.0.0.1:1004"))
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/auth"
	"portfolio/internal/httputil"
)

// Auth failure messages
const (
	MsgTokenRequired = "Access token required"
	MsgTokenInvalid  = "Invalid or expired token"
)

// AuthMiddleware verifies the bearer token on every request except the
// public ones. A missing token is 401; a token that fails verification
// is 403. On success the user ID and email are added to the context.
func AuthMiddleware(verifier auth.JWTVerifier, public func(*http.Request) bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || (public != nil && public(r)) {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				httputil.RespondFailure(w, http.StatusUnauthorized, MsgTokenRequired, "")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token verification failed", "path", r.URL.Path, "error", err)
				httputil.RespondFailure(w, http.StatusForbidden, MsgTokenInvalid, "")
				return
			}

			r = httputil.WithUserID(r, claims.GetUserID())
			r = httputil.WithUserEmail(r, claims.Email)
			next.ServeHTTP(w, r)
		})
	}
}

// PublicPaths matches requests by exact "METHOD /path" or bare "/path".
func PublicPaths(paths ...string) func(*http.Request) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(r *http.Request) bool {
		return set[r.URL.Path] || set[r.Method+" "+r.URL.Path]
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

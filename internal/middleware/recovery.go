package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"portfolio/internal/httputil"
)

// MsgInternal is the only thing a caller learns about a panic.
const MsgInternal = "Internal server error"

// Recovery turns a handler panic into a logged 500. http.ErrAbortHandler
// is re-raised so net/http can drop the connection as intended.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("handler panicked",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", httputil.GetRequestID(r),
					"stack", string(debug.Stack()),
				)
				httputil.RespondFailure(w, http.StatusInternalServerError, MsgInternal, "")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

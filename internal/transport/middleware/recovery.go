package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware converts panics into a 500 response. The panic value and
// stack stay in the logs; clients only ever see the generic message.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					io.WriteString(w, `{"Status":"Failed","Errors":["Internal server error"]}`)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

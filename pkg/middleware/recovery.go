package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/chamarodfai/POS/pkg/httputil"
)

// Recovery returns middleware that recovers from panics, logs the stack
// trace, and returns a 500 response in the standard envelope.
func Recovery(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					// http.ErrAbortHandler is the sanctioned way to abort a
					// response; re-panic so the server handles it.
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					log.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)

					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
						Error: &httputil.ErrorResponse{
							Code:    "INTERNAL_ERROR",
							Message: "an internal error occurred",
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package transport

import (
	"log/slog"
	"net/http"

	"github.com/parlor-dev/parlor/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to the generic 500 response. The panic value is logged
// server-side but never reaches the client. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", RequestIDFromContext(r.Context()),
					)
					WriteError(w, api.NewServerError())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

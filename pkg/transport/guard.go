package transport

import (
	"mime"
	"net/http"

	"github.com/parlor-dev/parlor/pkg/api"
)

// ContentTypeGuard returns middleware that rejects POST and PUT requests
// that do not declare an application/json body with 415.
func ContentTypeGuard() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mediaType != "application/json" {
					WriteError(w, &api.Error{
						Status:  http.StatusUnsupportedMediaType,
						Message: "only application/json supported",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

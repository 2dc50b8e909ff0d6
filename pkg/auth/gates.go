package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/parlor-dev/parlor/pkg/api"
	"github.com/parlor-dev/parlor/pkg/transport"
)

// challenge is the WWW-Authenticate header value sent with every 401.
const challenge = `Basic realm="/", charset="UTF-8"`

// PermissionSource is the read capability the authorizer needs from storage.
type PermissionSource interface {
	GetPermissions(ctx context.Context, spaceID int64, username string) (string, error)
}

// RequireAuthentication is the hard enforcement gate. It rejects requests
// without an attached subject with 401 and a Basic challenge, leaking no
// further detail.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Subject(r.Context()) == "" {
			w.Header().Set("WWW-Authenticate", challenge)
			transport.WriteError(w, api.NewAuthenticationError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission returns a gate enforcing that the subject holds the
// given permission character on the space named by the {spaceId} route
// parameter. Requests with a different method pass through untouched, so
// method-specific gates can be stacked on one route. The gate requires
// authentication as a prerequisite.
func RequirePermission(perms PermissionSource, method, perm string) transport.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				next.ServeHTTP(w, r)
				return
			}

			subject := Subject(r.Context())
			if subject == "" {
				w.Header().Set("WWW-Authenticate", challenge)
				transport.WriteError(w, api.NewAuthenticationError())
				return
			}

			spaceID, err := strconv.ParseInt(r.PathValue("spaceId"), 10, 64)
			if err != nil {
				transport.WriteError(w, api.NewValidationError("invalid space id"))
				return
			}

			held, err := perms.GetPermissions(r.Context(), spaceID, subject)
			if err != nil {
				transport.WriteError(w, err)
				return
			}

			if !strings.Contains(held, perm) {
				transport.WriteError(w, api.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

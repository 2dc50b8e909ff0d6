package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/parlor-dev/parlor/pkg/api"
	"github.com/parlor-dev/parlor/pkg/observability"
	"github.com/parlor-dev/parlor/pkg/storage"
	"github.com/parlor-dev/parlor/pkg/transport"
)

// UserSource is the read capability the authenticator needs from storage.
type UserSource interface {
	GetUser(ctx context.Context, username string) (*storage.User, error)
}

// PasswordAuthenticator verifies HTTP Basic credentials against stored
// scrypt hashes.
type PasswordAuthenticator struct {
	users UserSource
}

// NewPasswordAuthenticator creates an authenticator backed by the given
// user source.
func NewPasswordAuthenticator(users UserSource) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// Middleware is the soft authentication stage. When valid Basic credentials
// are present it attaches the subject to the request context; when the
// header is absent or uses another scheme it does nothing. Only a
// structurally malformed header or username is an error (400). A wrong
// password or unknown user attaches no subject and reveals nothing about
// which part was wrong.
func (a *PasswordAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Basic ") {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
		if err != nil {
			transport.WriteError(w, api.NewValidationError("invalid auth header"))
			return
		}

		username, password, ok := strings.Cut(string(raw), ":")
		if !ok {
			transport.WriteError(w, api.NewValidationError("invalid auth header"))
			return
		}

		if err := api.ValidateUsername(username); err != nil {
			transport.WriteError(w, err)
			return
		}

		user, err := a.users.GetUser(r.Context(), username)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Unknown user is not an error at this stage.
				next.ServeHTTP(w, r)
				return
			}
			transport.WriteError(w, err)
			return
		}

		if !VerifyPassword(password, user.PasswordHash) {
			observability.AuthFailuresTotal.Inc()
			slog.Warn("password verification failed",
				"username", username,
				"remote_addr", r.RemoteAddr,
			)
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithSubject(r.Context(), username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package token

import (
	"net/http"
	"time"

	"github.com/parlor-dev/parlor/pkg/auth"
	"github.com/parlor-dev/parlor/pkg/transport"
)

// Validate is the soft token-validation stage. A missing header means "no
// additional identity asserted" and the request proceeds untouched — never
// upgrade an absent token into a hard failure; routes that need a token
// add their own hard gate. A present, matching, unexpired token overrides
// the subject and attaches the token's attributes to the context.
func Validate(store Store) transport.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenID := r.Header.Get(Header)
			if tokenID == "" {
				next.ServeHTTP(w, r)
				return
			}

			t, err := store.Read(r, tokenID)
			if err != nil {
				transport.WriteError(w, err)
				return
			}
			if t == nil || !time.Now().Before(t.Expiry) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithSubject(r.Context(), t.Subject)
			if len(t.Attributes) > 0 {
				ctx = auth.WithAttributes(ctx, t.Attributes)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

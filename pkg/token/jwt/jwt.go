// Package jwt provides a stateless token store that encodes token state
// into HMAC-SHA256 signed JWTs instead of server-side sessions.
//
// Because the server keeps no record of issued tokens, Revoke is a no-op:
// a JWT stays valid until its expiry. Deployments that need immediate
// revocation should use the session-backed store instead.
package jwt

import (
	"fmt"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/parlor-dev/parlor/pkg/token"
)

// claims is the JWT payload. Attributes ride alongside the registered
// claims under a single custom key.
type claims struct {
	jwtlib.RegisteredClaims
	Attributes map[string]string `json:"attrs,omitempty"`
}

// Store signs and verifies tokens with a shared HMAC secret.
type Store struct {
	secret []byte
}

// Ensure Store implements token.Store at compile time.
var _ token.Store = (*Store)(nil)

// NewStore creates a JWT token store using the given HMAC secret.
func NewStore(secret []byte) (*Store, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt: empty signing secret")
	}
	return &Store{secret: secret}, nil
}

// Create signs the token state into a compact JWT. The JWT itself is the
// token identifier handed to the client; nothing is stored server-side.
func (s *Store) Create(w http.ResponseWriter, r *http.Request, t token.Token) (string, error) {
	c := claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   t.Subject,
			ExpiresAt: jwtlib.NewNumericDate(t.Expiry),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
		Attributes: t.Attributes,
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Read verifies the JWT's signature and returns its token state. Anything
// that fails verification — bad signature, malformed token, expired exp
// claim — reads as absent rather than as an error, so a forged token
// never surfaces details to the client.
func (s *Store) Read(r *http.Request, tokenID string) (*token.Token, error) {
	var c claims
	parsed, err := jwtlib.ParseWithClaims(tokenID, &c, s.keyFunc,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, nil
	}

	var expiry time.Time
	if c.ExpiresAt != nil {
		expiry = c.ExpiresAt.Time
	}
	return &token.Token{
		Subject:    c.Subject,
		Expiry:     expiry,
		Attributes: c.Attributes,
	}, nil
}

// Revoke is a no-op: signed tokens carry their own lifetime and cannot be
// recalled without server-side state.
func (s *Store) Revoke(w http.ResponseWriter, r *http.Request, tokenID string) error {
	return nil
}

func (s *Store) keyFunc(t *jwtlib.Token) (any, error) {
	return s.secret, nil
}

// Package token issues and validates the anti-CSRF tokens of the parlor
// API.
//
// The default store binds each token 1:1 to a server-side session: the
// token handed to the client is base64url(sha256(sessionID)), a one-way
// derivation of the session identifier rather than the identifier itself.
// A legitimate client holds the session cookie and echoes the derived
// token in the X-CSRF-Token header; a cross-site request can send the
// cookie but cannot set the header, and a cookie-planting attacker cannot
// compute a valid token without the live session identifier. Together the
// two form a double-submit CSRF defense.
package token

import (
	"net/http"
	"time"
)

// Header is the request header carrying the token.
const Header = "X-CSRF-Token"

// Token is an ephemeral credential bound to an authenticated subject.
// Attributes are carried opaquely from issuance to validation.
type Token struct {
	Subject    string
	Expiry     time.Time
	Attributes map[string]string
}

// Store issues, validates, and revokes tokens.
//
// Read does not check expiry; callers decide what an expired token means.
// A tokenID that does not correspond to this request's live state yields
// (nil, nil) — absence, not failure.
type Store interface {
	Create(w http.ResponseWriter, r *http.Request, t Token) (string, error)
	Read(r *http.Request, tokenID string) (*Token, error)
	Revoke(w http.ResponseWriter, r *http.Request, tokenID string) error
}

package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/parlor-dev/parlor/pkg/session"
)

// SessionStore binds tokens 1:1 to server-side sessions. Token identifiers
// are never stored: they are recomputed from the live session identifier on
// every read, so revoking a token and invalidating its session are the
// same operation.
type SessionStore struct {
	sessions session.Manager
}

// Ensure SessionStore implements Store at compile time.
var _ Store = (*SessionStore)(nil)

// NewSessionStore creates a token store backed by the given session manager.
func NewSessionStore(sessions session.Manager) *SessionStore {
	return &SessionStore{sessions: sessions}
}

// Create starts a fresh session holding the token state. The session
// manager invalidates any pre-existing session first, so an
// attacker-planted session identifier cannot become privileged.
func (s *SessionStore) Create(w http.ResponseWriter, r *http.Request, t Token) (string, error) {
	id, err := s.sessions.Start(w, r, session.State{
		Subject:    t.Subject,
		Expiry:     t.Expiry,
		Attributes: t.Attributes,
	})
	if err != nil {
		return "", err
	}
	return deriveTokenID(id), nil
}

// Read returns the token for tokenID, or nil when the request has no live
// session or the tokenID does not match it. The supplied identifier is
// compared against the recomputed session hash in constant time so the
// comparison cannot leak the session identifier through timing. Expiry is
// deliberately not checked here.
func (s *SessionStore) Read(r *http.Request, tokenID string) (*Token, error) {
	id, state, ok := s.sessions.Current(r)
	if !ok {
		return nil, nil
	}

	if !tokenMatchesSession(tokenID, id) {
		return nil, nil
	}

	return &Token{
		Subject:    state.Subject,
		Expiry:     state.Expiry,
		Attributes: state.Attributes,
	}, nil
}

// Revoke invalidates the session behind tokenID. The same constant-time
// gate as Read applies; revoking an unknown or already-revoked token is a
// no-op.
func (s *SessionStore) Revoke(w http.ResponseWriter, r *http.Request, tokenID string) error {
	id, _, ok := s.sessions.Current(r)
	if !ok {
		return nil
	}

	if !tokenMatchesSession(tokenID, id) {
		return nil
	}

	s.sessions.Invalidate(w, id)
	return nil
}

// deriveTokenID computes the client-visible token for a session identifier.
func deriveTokenID(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// tokenMatchesSession reports whether the supplied token identifier is the
// hash of the live session identifier, in constant time.
func tokenMatchesSession(tokenID, sessionID string) bool {
	provided, err := base64.RawURLEncoding.DecodeString(tokenID)
	if err != nil {
		return false
	}
	computed := sha256.Sum256([]byte(sessionID))
	return subtle.ConstantTimeCompare(computed[:], provided) == 1
}

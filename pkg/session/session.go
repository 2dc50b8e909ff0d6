// Package session provides the server-side session capability the token
// store depends on: start, read, invalidate. The interface is deliberately
// minimal and transport-agnostic so tests can substitute an in-memory fake
// and the token logic never touches cookies directly.
package session

import (
	"net/http"
	"time"
)

// State is the server-side data a session carries.
type State struct {
	Subject    string
	Expiry     time.Time
	Attributes map[string]string
}

// Manager owns session lifecycles. One request context has at most one
// live session.
type Manager interface {
	// Start invalidates any session the request already carries, then
	// creates a fresh one holding state and binds it to the response.
	// Always discarding the prior session defeats session fixation: an
	// attacker-supplied session identifier never survives a login.
	Start(w http.ResponseWriter, r *http.Request, state State) (id string, err error)

	// Current returns the live session for this request, or ok=false when
	// the request carries none.
	Current(r *http.Request) (id string, state *State, ok bool)

	// Invalidate destroys the session and unbinds it from the response.
	// Invalidating an already-dead session is a no-op.
	Invalidate(w http.ResponseWriter, id string)
}

package session

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// DefaultCookieName is the session cookie written by MemoryManager.
const DefaultCookieName = "PARLORSESSID"

// MemoryManager keeps session state in process memory. The cookie carries
// only the opaque session identifier; all state stays server-side.
type MemoryManager struct {
	cookieName string
	secure     bool

	mu       sync.RWMutex
	sessions map[string]State
}

// Ensure MemoryManager implements Manager at compile time.
var _ Manager = (*MemoryManager)(nil)

// NewMemoryManager creates an empty in-memory session manager. If secure
// is true the session cookie is marked Secure and only sent over TLS.
func NewMemoryManager(cookieName string, secure bool) *MemoryManager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &MemoryManager{
		cookieName: cookieName,
		secure:     secure,
		sessions:   make(map[string]State),
	}
}

// Start discards any session the request carries and creates a fresh one.
func (m *MemoryManager) Start(w http.ResponseWriter, r *http.Request, state State) (string, error) {
	if prior, _, ok := m.Current(r); ok {
		m.Invalidate(w, prior)
	}

	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = state
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

// Current returns the live session named by the request's cookie.
func (m *MemoryManager) Current(r *http.Request) (string, *State, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return "", nil, false
	}

	m.mu.RLock()
	state, ok := m.sessions[c.Value]
	m.mu.RUnlock()
	if !ok {
		return "", nil, false
	}
	return c.Value, &state, true
}

// Invalidate destroys the session and expires the cookie. Idempotent.
func (m *MemoryManager) Invalidate(w http.ResponseWriter, id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package token

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parlor-dev/parlor/pkg/session"
)

// issueToken creates a token and returns its identifier plus a request
// carrying the cookies the client would echo back.
func issueToken(t *testing.T, store *SessionStore, tok Token) (string, *http.Request) {
	t.Helper()
	rec := httptest.NewRecorder()
	id, err := store.Create(rec, httptest.NewRequest("POST", "/sessions", nil), tok)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return id, r
}

func TestCreateAndRead(t *testing.T) {
	store := NewSessionStore(session.NewMemoryManager("", false))
	expiry := time.Now().Add(10 * time.Minute)

	id, r := issueToken(t, store, Token{
		Subject:    "alice123",
		Expiry:     expiry,
		Attributes: map[string]string{"scope": "full"},
	})
	if id == "" {
		t.Fatal("empty token id")
	}

	got, err := store.Read(r, id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got == nil {
		t.Fatal("Read returned no token for a freshly issued identifier")
	}
	if got.Subject != "alice123" {
		t.Errorf("subject = %q, want alice123", got.Subject)
	}
	if !got.Expiry.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", got.Expiry, expiry)
	}
	if got.Attributes["scope"] != "full" {
		t.Errorf("attributes = %v", got.Attributes)
	}
}

func TestTokenIDIsSessionHash(t *testing.T) {
	sessions := session.NewMemoryManager("", false)
	store := NewSessionStore(sessions)

	id, r := issueToken(t, store, Token{Subject: "alice123"})

	sessionID, _, ok := sessions.Current(r)
	if !ok {
		t.Fatal("no live session after Create")
	}
	sum := sha256.Sum256([]byte(sessionID))
	if want := base64.RawURLEncoding.EncodeToString(sum[:]); id != want {
		t.Errorf("token id = %q, want %q", id, want)
	}
	if id == sessionID {
		t.Error("token id equals the raw session identifier")
	}
}

func TestReadRejectsForeignTokenID(t *testing.T) {
	store := NewSessionStore(session.NewMemoryManager("", false))
	_, r := issueToken(t, store, Token{Subject: "alice123"})

	for _, id := range []string{
		"not-the-right-token",
		base64.RawURLEncoding.EncodeToString(make([]byte, 32)),
		"!!!not-base64url!!!",
		"",
	} {
		got, err := store.Read(r, id)
		if err != nil {
			t.Fatalf("Read(%q): %v", id, err)
		}
		if got != nil {
			t.Errorf("Read(%q) returned a token", id)
		}
	}
}

func TestReadWithoutSession(t *testing.T) {
	store := NewSessionStore(session.NewMemoryManager("", false))
	id, _ := issueToken(t, store, Token{Subject: "alice123"})

	// Same identifier, but a request with no session cookie.
	got, err := store.Read(httptest.NewRequest("GET", "/", nil), id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != nil {
		t.Error("Read returned a token for a sessionless request")
	}
}

func TestReadDoesNotCheckExpiry(t *testing.T) {
	store := NewSessionStore(session.NewMemoryManager("", false))
	id, r := issueToken(t, store, Token{
		Subject: "alice123",
		Expiry:  time.Now().Add(-time.Minute),
	})

	got, err := store.Read(r, id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got == nil {
		t.Fatal("Read hid an expired token; expiry is the caller's decision")
	}
}

func TestRevoke(t *testing.T) {
	store := NewSessionStore(session.NewMemoryManager("", false))
	id, r := issueToken(t, store, Token{Subject: "alice123"})

	if err := store.Revoke(httptest.NewRecorder(), r, id); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if got, _ := store.Read(r, id); got != nil {
		t.Error("token still readable after Revoke")
	}

	// Revoking again, or revoking a foreign identifier, is a no-op.
	if err := store.Revoke(httptest.NewRecorder(), r, id); err != nil {
		t.Errorf("second Revoke: %v", err)
	}
	if err := store.Revoke(httptest.NewRecorder(), r, "unknown-token"); err != nil {
		t.Errorf("Revoke of unknown token: %v", err)
	}
}

func TestCreateInvalidatesPriorToken(t *testing.T) {
	store := NewSessionStore(session.NewMemoryManager("", false))
	first, r1 := issueToken(t, store, Token{Subject: "alice123"})

	// Second login from a client still holding the first session cookie.
	rec := httptest.NewRecorder()
	second, err := store.Create(rec, r1, Token{Subject: "alice123"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first == second {
		t.Fatal("token id reused across Create calls")
	}

	if got, _ := store.Read(r1, first); got != nil {
		t.Error("prior token still readable after a new Create")
	}
}

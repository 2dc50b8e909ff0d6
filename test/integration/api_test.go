package integration

import (
	"io"
	"net/http"
	"testing"

	"github.com/parlor-dev/parlor/pkg/auth"
	"github.com/parlor-dev/parlor/pkg/token"
)

// TestUserJourney walks the whole API the way a client would: register,
// log in, create a space, invite a member, and log out again.
func TestUserJourney(t *testing.T) {
	base := testEnv.Server.URL

	alice := newClient(t)
	registerUser(t, alice, base, "alice123", "correcthorse")
	aliceToken := loginUser(t, alice, base, "alice123", "correcthorse")

	bob := newClient(t)
	registerUser(t, bob, base, "bob456", "batterystaple")

	// Alice creates a space using her session cookie and token.
	resp := request(t, alice, "POST", base+"/spaces",
		`{"name":"journey","owner":"alice123"}`, token.Header, aliceToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create space: status = %d", resp.StatusCode)
	}
	var space struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
	}
	decodeBody(t, resp, &space)
	if space.Name != "journey" || space.URI == "" {
		t.Fatalf("create space body = %+v", space)
	}

	// Alice grants bob read and write.
	resp = request(t, alice, "POST", base+space.URI+"/members",
		`{"username":"bob456","permissions":"rw"}`, token.Header, aliceToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add member: status = %d", resp.StatusCode)
	}
	var grant struct {
		Username    string `json:"username"`
		Permissions string `json:"permissions"`
	}
	decodeBody(t, resp, &grant)
	if grant.Username != "bob456" || grant.Permissions != "rw" {
		t.Errorf("grant = %+v", grant)
	}

	// Bob can now add members too (he holds w).
	bobToken := loginUser(t, bob, base, "bob456", "batterystaple")
	resp = request(t, bob, "POST", base+space.URI+"/members",
		`{"username":"alice123","permissions":"r"}`, token.Header, bobToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("bob add member: status = %d, want 200", resp.StatusCode)
	}

	// Alice logs out; her token stops working, bob's keeps working.
	resp = request(t, alice, "DELETE", base+"/sessions", "", token.Header, aliceToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status = %d", resp.StatusCode)
	}
	resp = request(t, alice, "POST", base+"/spaces",
		`{"name":"after-logout","owner":"alice123"}`, token.Header, aliceToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("after logout: status = %d, want 401", resp.StatusCode)
	}
	resp = request(t, bob, "POST", base+space.URI+"/members",
		`{"username":"alice123","permissions":"rw"}`, token.Header, bobToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("bob after alice logout: status = %d, want 200", resp.StatusCode)
	}
}

func TestStolenCookieWithoutToken(t *testing.T) {
	base := testEnv.Server.URL

	victim := newClient(t)
	registerUser(t, victim, base, "carol789", "tr0ub4dor123")
	loginUser(t, victim, base, "carol789", "tr0ub4dor123")

	// A cross-site request carries the cookie automatically but cannot
	// set the token header.
	resp := request(t, victim, "POST", base+"/spaces",
		`{"name":"csrf","owner":"carol789"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("cookie without token: status = %d, want 401", resp.StatusCode)
	}
}

func TestPermissionBoundary(t *testing.T) {
	base := testEnv.Server.URL

	owner := newClient(t)
	registerUser(t, owner, base, "dave1111", "davepassword")
	ownerToken := loginUser(t, owner, base, "dave1111", "davepassword")

	outsider := newClient(t)
	registerUser(t, outsider, base, "eve2222", "evepassword")
	outsiderToken := loginUser(t, outsider, base, "eve2222", "evepassword")

	resp := request(t, owner, "POST", base+"/spaces",
		`{"name":"walled","owner":"dave1111"}`, token.Header, ownerToken)
	var space struct {
		URI string `json:"uri"`
	}
	decodeBody(t, resp, &space)

	// Authenticated but ungranted: 403, with no body detail.
	resp = request(t, outsider, "POST", base+space.URI+"/members",
		`{"username":"eve2222","permissions":"rwd"}`, token.Header, outsiderToken)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("outsider grant: status = %d, want 403", resp.StatusCode)
	}
	if len(body) != 0 {
		t.Errorf("403 body = %q, want empty", body)
	}
}

func TestAuditTrail(t *testing.T) {
	base := testEnv.Server.URL
	c := newClient(t)

	registerUser(t, c, base, "frank333", "frankpassword")

	resp := request(t, c, "GET", base+"/logs", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /logs: status = %d", resp.StatusCode)
	}
	var entries []struct {
		ID     string `json:"id"`
		Method string `json:"method"`
		Path   string `json:"path"`
		Status int    `json:"status"`
	}
	decodeBody(t, resp, &entries)

	var sawRegister bool
	for _, e := range entries {
		if e.Method == "POST" && e.Path == "/users" && e.Status == http.StatusCreated {
			sawRegister = true
		}
	}
	if !sawRegister {
		t.Error("audit log has no completed POST /users entry")
	}
}

func TestRateLimiting(t *testing.T) {
	// Dedicated server with a tight bucket so other tests stay unthrottled.
	srv := startServer(auth.NewTokenBucket(1, 2))
	defer srv.Close()

	c := newClient(t)
	var rejected *http.Response
	for range 5 {
		resp := request(t, c, "GET", srv.URL+"/logs", "")
		if resp.StatusCode == http.StatusTooManyRequests {
			rejected = resp
			break
		}
		resp.Body.Close()
	}
	if rejected == nil {
		t.Fatal("no 429 after exhausting the burst")
	}
	defer rejected.Body.Close()
	if retry := rejected.Header.Get("Retry-After"); retry == "" || retry == "0" {
		t.Errorf("Retry-After = %q, want positive seconds", retry)
	}
}

func TestHealthz(t *testing.T) {
	resp, err := http.Get(testEnv.Server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSecurityHeaders(t *testing.T) {
	resp, err := http.Get(testEnv.Server.URL + "/no-such-path")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "0",
		"Cache-Control":           "no-store",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'; sandbox",
		"Content-Type":            "application/json;charset=utf-8",
	}
	for header, value := range want {
		if got := resp.Header.Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

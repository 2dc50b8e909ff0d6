package auth

import (
	"strings"
	"testing"
)

// testHash produces a hash with cheap parameters so tests stay fast.
// Verification reads the parameters from the hash itself, so VerifyPassword
// handles these exactly like production hashes.
func testHash(t *testing.T, password string) string {
	t.Helper()
	h, err := hashPassword(password, 4, 8, 1)
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHash(t, "longenough1")

	if !VerifyPassword("longenough1", h) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrongpassword", h) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", h) {
		t.Error("empty password accepted")
	}
}

func TestHashFormat(t *testing.T) {
	h := testHash(t, "longenough1")

	parts := strings.Split(h, "$")
	if len(parts) != 5 || parts[1] != "s0" {
		t.Fatalf("hash %q not in $s0$params$salt$key form", h)
	}
	// log2(16)<<16 | 8<<8 | 1 = 0x40801
	if parts[2] != "40801" {
		t.Errorf("params field = %q, want 40801", parts[2])
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1 := testHash(t, "longenough1")
	h2 := testHash(t, "longenough1")
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt missing")
	}
	if !VerifyPassword("longenough1", h1) || !VerifyPassword("longenough1", h2) {
		t.Error("salted hashes failed to verify")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"not a hash",
		"$s0$zzz$c2FsdA$aGFzaA",   // bad params
		"$s0$40801$!!$aGFzaA",     // bad salt encoding
		"$s1$40801$c2FsdA$aGFzaA", // unknown scheme
		"$s0$40801$c2FsdA",        // missing field
	}
	for _, h := range malformed {
		if VerifyPassword("longenough1", h) {
			t.Errorf("VerifyPassword accepted malformed hash %q", h)
		}
	}
}

func TestProductionParameters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping memory-hard hash in -short mode")
	}

	h, err := HashPassword("longenough1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	// N=2^15, r=8, p=1 -> params f0801.
	if !strings.HasPrefix(h, "$s0$f0801$") {
		t.Errorf("hash %q does not carry production parameters", h)
	}
	if !VerifyPassword("longenough1", h) {
		t.Error("production-parameter hash failed to verify")
	}
}

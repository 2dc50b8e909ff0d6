package api

import "testing"

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice123", "Bob", "z9", "Abcdefghijklmnopqrstuvwxyz1234"}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"a",                               // too short
		"1alice",                          // must start with a letter
		"alice!",                          // bad character
		"alice bob",                       // space
		"Abcdefghijklmnopqrstuvwxyz12345", // 31 chars
	}
	for _, u := range invalid {
		if err := ValidateUsername(u); err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", u)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough1"); err != nil {
		t.Errorf("ValidatePassword = %v, want nil", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("ValidatePassword accepted a 5-char password")
	}
}

func TestValidateSpaceName(t *testing.T) {
	if err := ValidateSpaceName("test space"); err != nil {
		t.Errorf("ValidateSpaceName = %v, want nil", err)
	}
	if err := ValidateSpaceName(""); err == nil {
		t.Error("ValidateSpaceName accepted empty name")
	}
	long := make([]byte, MaxSpaceNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := ValidateSpaceName(string(long)); err == nil {
		t.Error("ValidateSpaceName accepted oversized name")
	}
}

func TestValidatePermissions(t *testing.T) {
	valid := []string{"r", "w", "d", "rw", "rwd", "dr"}
	for _, p := range valid {
		if err := ValidatePermissions(p); err != nil {
			t.Errorf("ValidatePermissions(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "x", "rr", "rwx", "RWD", "r w"}
	for _, p := range invalid {
		if err := ValidatePermissions(p); err == nil {
			t.Errorf("ValidatePermissions(%q) = nil, want error", p)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	e := NewValidationError("invalid username")
	if e.Status != 400 {
		t.Errorf("Status = %d, want 400", e.Status)
	}
	if e.Error() != "invalid username" {
		t.Errorf("Error() = %q", e.Error())
	}

	// Confidential statuses carry no message.
	for _, err := range []*Error{NewAuthenticationError(), NewForbiddenError(), NewNotFoundError()} {
		if err.Message != "" {
			t.Errorf("status %d carries message %q, want none", err.Status, err.Message)
		}
	}
}

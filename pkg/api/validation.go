package api

import (
	"regexp"
	"strings"
)

// usernamePattern is the identifier policy for usernames: a letter followed
// by 1 to 29 letters or digits.
var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{1,29}$`)

// MaxSpaceNameLength bounds space names.
const MaxSpaceNameLength = 255

// MinPasswordLength is the registration password policy.
const MinPasswordLength = 8

// ValidateUsername checks the username against the identifier pattern.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return NewValidationError("invalid username")
	}
	return nil
}

// ValidatePassword checks the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateSpaceName checks the space name length bound.
func ValidateSpaceName(name string) error {
	if name == "" {
		return NewValidationError("space name required")
	}
	if len(name) > MaxSpaceNameLength {
		return NewValidationError("space name too long")
	}
	return nil
}

// ValidatePermissions checks that perms is a non-empty subset of the
// permission alphabet {r,w,d} with no character repeated.
func ValidatePermissions(perms string) error {
	if perms == "" {
		return NewValidationError("permissions required")
	}
	seen := map[rune]bool{}
	for _, c := range perms {
		if !strings.ContainsRune("rwd", c) {
			return NewValidationError("invalid permissions")
		}
		if seen[c] {
			return NewValidationError("invalid permissions")
		}
		seen[c] = true
	}
	return nil
}

package storage

import (
	"context"
	"time"
)

// User is a registered account. The password hash is an opaque encoded
// string produced by the auth package; users are immutable once created.
type User struct {
	Username     string
	PasswordHash string
}

// Space is a shared social space owned by a user.
type Space struct {
	ID    int64
	Name  string
	Owner string
}

// Permission grants a user a set of capability flags on a space. Perms is
// a subset string over the alphabet {r,w,d}.
type Permission struct {
	SpaceID  int64
	Username string
	Perms    string
}

// AuditRecord is one row of the request audit log. Each request produces a
// start record (Status zero) and an end record (Status set) sharing an ID.
type AuditRecord struct {
	ID      string
	Method  string
	Path    string
	Subject string
	Status  int
	Time    time.Time
}

// Store is the persistence interface for users, spaces, permissions, and
// the audit log.
type Store interface {
	// CreateUser inserts a new user. Returns ErrConflict if the username
	// is taken.
	CreateUser(ctx context.Context, u User) error

	// GetUser retrieves a user by username. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, username string) (*User, error)

	// CreateSpace assigns the next space ID, inserts the space, and grants
	// the owner full "rwd" permissions, all atomically.
	CreateSpace(ctx context.Context, name, owner string) (*Space, error)

	// GetPermissions returns the permission string for (spaceID, username).
	// Absence of a row is not an error; it returns the empty string.
	GetPermissions(ctx context.Context, spaceID int64, username string) (string, error)

	// GrantPermission inserts a permission row, replacing any existing
	// grant for the same (space, user) pair. Returns ErrNotFound when the
	// space does not exist.
	GrantPermission(ctx context.Context, p Permission) error

	// AppendAudit records one audit entry.
	AppendAudit(ctx context.Context, rec AuditRecord) error

	// RecentAudit returns audit entries newer than since, most recent
	// first, capped at limit.
	RecentAudit(ctx context.Context, since time.Time, limit int) ([]AuditRecord, error)

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}

// Package memory provides an in-memory implementation of storage.Store for
// testing and lightweight deployments. All records are lost when the
// process restarts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parlor-dev/parlor/pkg/storage"
)

type permKey struct {
	spaceID  int64
	username string
}

// Store is an in-memory storage.Store guarded by a single mutex.
type Store struct {
	mu          sync.RWMutex
	users       map[string]storage.User
	spaces      map[int64]storage.Space
	perms       map[permKey]string
	audit       []storage.AuditRecord
	nextSpaceID int64
	maxAudit    int
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store. maxAudit bounds the retained audit
// log; 0 means unlimited.
func New(maxAudit int) *Store {
	return &Store{
		users:    make(map[string]storage.User),
		spaces:   make(map[int64]storage.Space),
		perms:    make(map[permKey]string),
		maxAudit: maxAudit,
	}
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(_ context.Context, u storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Username]; exists {
		return storage.ErrConflict
	}
	s.users[u.Username] = u
	return nil
}

// GetUser retrieves a user by username.
func (s *Store) GetUser(_ context.Context, username string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

// CreateSpace assigns the next space ID and grants the owner "rwd" under
// the same lock, so no request can observe the space without the grant.
func (s *Store) CreateSpace(_ context.Context, name, owner string) (*storage.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSpaceID++
	sp := storage.Space{ID: s.nextSpaceID, Name: name, Owner: owner}
	s.spaces[sp.ID] = sp
	s.perms[permKey{sp.ID, owner}] = "rwd"
	return &sp, nil
}

// GetPermissions returns the permission string for (spaceID, username),
// or the empty string when no grant exists.
func (s *Store) GetPermissions(_ context.Context, spaceID int64, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.perms[permKey{spaceID, username}], nil
}

// GrantPermission inserts a permission row. The space must exist.
func (s *Store) GrantPermission(_ context.Context, p storage.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[p.SpaceID]; !ok {
		return storage.ErrNotFound
	}
	s.perms[permKey{p.SpaceID, p.Username}] = p.Perms
	return nil
}

// AppendAudit records one audit entry, evicting the oldest when the
// retention bound is reached.
func (s *Store) AppendAudit(_ context.Context, rec storage.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, rec)
	if s.maxAudit > 0 && len(s.audit) > s.maxAudit {
		s.audit = s.audit[len(s.audit)-s.maxAudit:]
	}
	return nil
}

// RecentAudit returns entries newer than since, most recent first.
func (s *Store) RecentAudit(_ context.Context, since time.Time, limit int) ([]storage.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.AuditRecord
	for _, rec := range s.audit {
		if rec.Time.After(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

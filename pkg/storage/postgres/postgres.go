// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and embedded SQL migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parlor-dev/parlor/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, u storage.User) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users (user_id, pw_hash) VALUES ($1, $2)",
		u.Username, u.PasswordHash,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by username.
func (s *Store) GetUser(ctx context.Context, username string) (*storage.User, error) {
	var u storage.User
	err := s.pool.QueryRow(ctx,
		"SELECT user_id, pw_hash FROM users WHERE user_id = $1",
		username,
	).Scan(&u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// CreateSpace inserts the space and the owner's "rwd" grant in a single
// transaction, drawing the space ID from a sequence.
func (s *Store) CreateSpace(ctx context.Context, name, owner string) (*storage.Space, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, "SELECT nextval('space_id_seq')").Scan(&id); err != nil {
		return nil, fmt.Errorf("allocating space id: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO spaces (space_id, name, owner) VALUES ($1, $2, $3)",
		id, name, owner,
	); err != nil {
		return nil, fmt.Errorf("inserting space: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO permissions (space_id, user_id, perms) VALUES ($1, $2, 'rwd')",
		id, owner,
	); err != nil {
		return nil, fmt.Errorf("granting owner permissions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing space creation: %w", err)
	}

	return &storage.Space{ID: id, Name: name, Owner: owner}, nil
}

// GetPermissions returns the permission string for (spaceID, username),
// or the empty string when no row exists.
func (s *Store) GetPermissions(ctx context.Context, spaceID int64, username string) (string, error) {
	var perms string
	err := s.pool.QueryRow(ctx,
		"SELECT perms FROM permissions WHERE space_id = $1 AND user_id = $2",
		spaceID, username,
	).Scan(&perms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying permissions: %w", err)
	}
	return perms, nil
}

// GrantPermission inserts a permission row, replacing any existing grant
// for the same (space, user) pair.
func (s *Store) GrantPermission(ctx context.Context, p storage.Permission) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO permissions (space_id, user_id, perms)
		SELECT space_id, $2, $3 FROM spaces WHERE space_id = $1
		ON CONFLICT (space_id, user_id) DO UPDATE SET perms = EXCLUDED.perms
	`, p.SpaceID, p.Username, p.Perms)
	if err != nil {
		return fmt.Errorf("granting permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendAudit records one audit entry.
func (s *Store) AppendAudit(ctx context.Context, rec storage.AuditRecord) error {
	var status *int
	if rec.Status != 0 {
		status = &rec.Status
	}
	var subject *string
	if rec.Subject != "" {
		subject = &rec.Subject
	}

	_, err := s.pool.Exec(ctx,
		"INSERT INTO audit_log (audit_id, method, path, user_id, status, audit_time) VALUES ($1, $2, $3, $4, $5, $6)",
		rec.ID, rec.Method, rec.Path, subject, status, rec.Time,
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	return nil
}

// RecentAudit returns audit entries newer than since, most recent first.
func (s *Store) RecentAudit(ctx context.Context, since time.Time, limit int) ([]storage.AuditRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT audit_id, method, path, user_id, status, audit_time
		FROM audit_log
		WHERE audit_time > $1
		ORDER BY audit_time DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var out []storage.AuditRecord
	for rows.Next() {
		var rec storage.AuditRecord
		var subject *string
		var status *int
		if err := rows.Scan(&rec.ID, &rec.Method, &rec.Path, &subject, &status, &rec.Time); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}
		if subject != nil {
			rec.Subject = *subject
		}
		if status != nil {
			rec.Status = *status
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit log: %w", err)
	}
	return out, nil
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// isDuplicateKey reports whether err is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

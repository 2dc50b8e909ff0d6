// Package storage defines the persistent records of the parlor API (users,
// spaces, permissions, audit entries), the Store interface the rest of the
// system depends on, and the sentinel errors shared by its implementations.
//
// Two adapters implement Store: memory (tests and lightweight deployments)
// and postgres (pgx connection pool with embedded schema migrations).
// Absence of a record is reported as ErrNotFound and is distinguished from
// lookup failure everywhere; the transport layer maps absence to 404.
package storage

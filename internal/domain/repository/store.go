package repository

import "context"

// Store exposes the lifecycle of the backing store to callers outside the
// persistence layer, without leaking the driver. The admin init-db endpoint
// and health plumbing depend on this rather than on the concrete client.
type Store interface {
	// Ping reports whether the store is currently reachable.
	Ping(ctx context.Context) error

	// Initialize (re)establishes the connection if needed and applies the
	// idempotent create-if-absent schema migration.
	Initialize(ctx context.Context) error
}

package schedule

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATOR INTERFACES
// Implementations live in infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// Store is a string-keyed, string-valued durable key-value store.
// No transactions; each key is independent.
type Store interface {
	// Get returns the value and true, or false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set fully overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}

// ErrorReporter receives failures that must not alter control flow.
type ErrorReporter interface {
	Report(ctx context.Context, where string, err error)
}

// IDGenerator produces identifiers unique for the process lifetime.
type IDGenerator interface {
	NewID() string
}

package persistence

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/circuitbreaker"
)

// GuardedStore puts a circuit breaker in front of a Store. While the circuit
// is open, reads and writes fail fast instead of each waiting for a timeout.
// Ping always reaches the backend so health checks see its real state.
type GuardedStore struct {
	store   schedule.Store
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedStore wraps store with breaker.
func NewGuardedStore(store schedule.Store, breaker *circuitbreaker.CircuitBreaker) *GuardedStore {
	return &GuardedStore{store: store, breaker: breaker}
}

// Get reads key through the breaker. A missing key is not a failure.
func (g *GuardedStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		value, found, err = g.store.Get(ctx, key)
		return err
	})
	return value, found, err
}

// Set writes key through the breaker.
func (g *GuardedStore) Set(ctx context.Context, key, value string) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.store.Set(ctx, key, value)
	})
}

// Ping checks the backend directly.
func (g *GuardedStore) Ping(ctx context.Context) error {
	return g.store.Ping(ctx)
}

var _ schedule.Store = (*GuardedStore)(nil)

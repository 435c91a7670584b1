package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStoreFromClient(client), mr
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, found, err := store.Get(context.Background(), "pilaris_control_2024-06-10_schedule")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SetOverwritesWithoutTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	key := "pilaris_control_2024-06-10_schedule"

	require.NoError(t, store.Set(ctx, key, `[{"time":"08:00"}]`))
	require.NoError(t, store.Set(ctx, key, `[]`))

	val, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, val)
	assert.Zero(t, mr.TTL(key))
}

func TestStore_EmptyKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrKeyEmpty)
	assert.ErrorIs(t, store.Set(context.Background(), "", "x"), ErrKeyEmpty)
}

func TestStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

func TestNewStore_FromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.URL = "redis://" + mr.Addr() + "/0"

	store, err := NewStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewStore_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MaxRetries = -1
	cfg.DialTimeout = 200 * time.Millisecond

	_, err := NewStore(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrConnection)
}

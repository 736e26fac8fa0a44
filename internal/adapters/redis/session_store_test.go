package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "digithai/internal/adapters/redis"
	"digithai/internal/ports/services"
)

func newSessionStore(t *testing.T, ttl time.Duration) (*adapter.SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})

	return adapter.NewSessionStore(client, ttl), mr
}

func TestSessionStoreCreateAndGet(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	userID, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionStoreGetUnknownSession(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)

	_, err := store.Get(context.Background(), "missing-session")

	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestSessionStoreExpiration(t *testing.T) {
	store, mr := newSessionStore(t, time.Minute)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, sessionID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestSessionStoreSlidingTTL(t *testing.T) {
	store, mr := newSessionStore(t, time.Minute)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	// Каждое обращение продлевает сессию, поэтому активная сессия
	// переживает исходный TTL.
	mr.FastForward(40 * time.Second)
	_, err = store.Get(ctx, sessionID)
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	userID, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionStoreDelete(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sessionID))

	_, err = store.Get(ctx, sessionID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

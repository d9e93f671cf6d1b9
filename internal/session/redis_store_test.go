package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr(), "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour, time.Minute)

	s := New()
	s.Login("bob")
	s.AppendChatTurn("How much water?", "About two litres.")
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("session:"+s.ID))

	loaded, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Username)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "About two litres.", loaded.History[0].Answer)
	assert.NotNil(t, loaded.Cart)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Minute, time.Minute)

	s := New()
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, time.Minute, mr.TTL("session:"+s.ID))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour, time.Minute)

	s := New()
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Delete(ctx, s.ID))

	_, err := store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(addr, "", "")
	assert.ErrorContains(t, err, "ping redis")
}

func TestRedisStoreLockSerializes(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour, time.Minute)

	unlock, err := store.Lock(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:session:sid"))

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = store.Lock(waitCtx, "sid")
	assert.ErrorIs(t, err, ErrLocked)

	acquired := make(chan struct{})
	go func() {
		unlockSecond, err := store.Lock(ctx, "sid")
		if assert.NoError(t, err) {
			unlockSecond()
		}
		close(acquired)
	}()
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second Lock never acquired the released key")
	}
	assert.False(t, mr.Exists("lock:session:sid"))
}

func TestRedisStoreUnlockKeepsForeignLock(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour, time.Second)

	unlock, err := store.Lock(ctx, "sid")
	require.NoError(t, err)

	// The lock expires and another holder takes it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:session:sid", "someone-else"))

	unlock()
	got, err := mr.Get("lock:session:sid")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to the Redis named by DEJAVU_TEST_REDIS_ADDR and
// skips the test when it is unset.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("DEJAVU_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DEJAVU_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedis_AcquireRelease(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	key := PairKey(int(time.Now().UnixNano()%100000), 1)
	l := NewRedis(client, time.Second)

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(waitCtx, key)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)

	require.NoError(t, release(ctx))

	again, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedis_ReleaseKeepsForeignLease(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	key := PairKey(int(time.Now().UnixNano()%100000), 2)
	l := NewRedis(client, 50*time.Millisecond)

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	// Let the lease expire and someone else take it.
	time.Sleep(80 * time.Millisecond)
	other, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	require.NoError(t, other(ctx))
}

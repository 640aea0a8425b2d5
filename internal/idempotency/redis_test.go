package idempotency

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisStoreSeenAndMark(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedis(rdb, SetEvents, Config{Capacity: 10, Target: 8})

	seen, err := s.Seen(ctx, "event|JobStatusChanged|123|||")
	require.NoError(t, err)
	assert.False(t, seen)

	present, err := s.CheckAndMark(ctx, "event|JobStatusChanged|123|||")
	require.NoError(t, err)
	assert.False(t, present)

	present, err = s.CheckAndMark(ctx, "event|JobStatusChanged|123|||")
	require.NoError(t, err)
	assert.True(t, present)

	seen, err = s.Seen(ctx, "event|JobStatusChanged|123|||")
	require.NoError(t, err)
	assert.True(t, seen)

	assert.True(t, mr.Exists("jobcard:idem:events"))
}

func TestRedisStoreTrimsToTarget(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	s := NewRedis(rdb, SetCompletions, Config{Capacity: 5, Target: 3, KeyPrefix: "test"})

	for i := 1; i <= 6; i++ {
		require.NoError(t, s.MarkSeen(ctx, fmt.Sprintf("k%d", i)))
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	members, err := rdb.ZRange(ctx, "test:completions", 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"k4", "k5", "k6"}, members)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedis(rdb, SetDeleted, Config{})
	mr.Close()

	_, err := s.Seen(ctx, "job")
	assert.Error(t, err)
	_, err = s.CheckAndMark(ctx, "job")
	assert.Error(t, err)
}

func TestNewStores(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		stores, err := NewStores(ctx, Config{})
		require.NoError(t, err)
		defer stores.Close()

		require.NoError(t, stores.Deleted.MarkSeen(ctx, "123"))
		stats, err := stores.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{SetEvents: 0, SetCompletions: 0, SetManual: 0, SetDeleted: 1}, stats)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		stores, err := NewStores(ctx, Config{Backend: BackendRedis, RedisURL: "redis://" + mr.Addr()})
		require.NoError(t, err)
		defer stores.Close()

		require.NoError(t, stores.Events.MarkSeen(ctx, "a"))
		assert.True(t, mr.Exists("jobcard:idem:events"))
		assert.False(t, mr.Exists("jobcard:idem:deleted"))
	})

	t.Run("redis without url", func(t *testing.T) {
		_, err := NewStores(ctx, Config{Backend: BackendRedis})
		assert.ErrorIs(t, err, ErrRedisURL)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewStores(ctx, Config{Backend: "etcd"})
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})
}

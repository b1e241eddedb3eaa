package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/habesha-match/internal/cache"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestSeenSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, c.MarkSeen(ctx, 1, 10, time.Hour))
	require.NoError(t, c.MarkSeen(ctx, 1, 11, time.Hour))
	require.NoError(t, c.MarkSeen(ctx, 1, 10, time.Hour))

	seen, err := c.Seen(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{10, 11}, seen)
	assert.Equal(t, time.Hour, mr.TTL(cache.KeyForSeen(1)))

	// other users are independent
	other, err := c.Seen(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, c.ResetSeen(ctx, 1))
	seen, err = c.Seen(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestSeenSet_Expires(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, c.MarkSeen(ctx, 1, 10, time.Minute))
	mr.FastForward(2 * time.Minute)

	seen, err := c.Seen(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, seen)
}

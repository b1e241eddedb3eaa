package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/habesha-match/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

// NewFromClient wraps an existing client (tests, shared pools).
func NewFromClient(c *redis.Client) *RedisCache {
	return &RedisCache{Client: c}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForSeen generates Redis key for a user's current browsing pass.
func KeyForSeen(userID uint64) string {
	return fmt.Sprintf("discovery:seen:%d", userID)
}

// MarkSeen adds a candidate to the browsing pass and refreshes its TTL.
// ttl <= 0 keeps the set until ResetSeen.
func (c *RedisCache) MarkSeen(ctx context.Context, userID, candidateID uint64, ttl time.Duration) error {
	key := KeyForSeen(userID)
	pipe := c.Client.TxPipeline()
	pipe.SAdd(ctx, key, candidateID)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Seen returns the candidates already shown in the current pass.
func (c *RedisCache) Seen(ctx context.Context, userID uint64) ([]uint64, error) {
	members, err := c.Client.SMembers(ctx, KeyForSeen(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// ResetSeen starts a new browsing pass.
func (c *RedisCache) ResetSeen(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, KeyForSeen(userID)).Err()
}

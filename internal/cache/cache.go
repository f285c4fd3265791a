package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Cache is a small read-through JSON cache over Redis for the doctor
// directory and availability queries. A nil *Cache (no REDIS_URL) is valid
// and turns every operation into a no-op, so callers never branch on it.
type Cache struct {
	rdb *redis.Client
}

func New(redisURL string) *Cache {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, caching disabled")
		return nil
	}

	return &Cache{rdb: redis.NewClient(opts)}
}

func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("cache invalidate failed")
	}
}

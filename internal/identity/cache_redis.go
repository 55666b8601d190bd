package identity

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"refguard/internal/platform/redis"
	"refguard/pkg/domain"
)

// RedisCache is a shared lookup cache for scaled-out event consumers.
// Entries expire after the configured TTL so the mapping self-heals if a
// profile is ever rebound.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache creates a redis-backed cache with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, profileID domain.ProfileID) (domain.UserID, bool) {
	val, err := c.client.Get(ctx, c.key(profileID)).Result()
	if err == goredis.Nil {
		return "", false
	}
	if err != nil {
		// Treat an unavailable cache as a miss; the directory is still there.
		c.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		return "", false
	}
	return domain.UserID(val), true
}

func (c *RedisCache) Set(ctx context.Context, profileID domain.ProfileID, userID domain.UserID) {
	if err := c.client.Set(ctx, c.key(profileID), userID.String(), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "identity cache write failed", "error", err)
	}
}

func (c *RedisCache) key(profileID domain.ProfileID) string {
	return "refguard:identity:" + profileID.String()
}

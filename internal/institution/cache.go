package institution

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/banner"
	"github.com/sona-group/institution-cms/internal/metrics"
)

// Cache stores formatted institution responses by key. Implementations
// must treat failures as misses; the database stays the source of truth.
type Cache interface {
	Get(ctx context.Context, key string) (banner.Record, bool)
	Set(ctx context.Context, key string, rec banner.Record)
	Delete(ctx context.Context, keys ...string)
}

// NopCache never stores anything. It is used when REDIS_URL is unset.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (banner.Record, bool) { return nil, false }
func (NopCache) Set(context.Context, string, banner.Record)        {}
func (NopCache) Delete(context.Context, ...string)                 {}

// RedisCache keeps JSON-encoded records in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (banner.Record, bool) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var rec banner.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return rec, true
}

func (c *RedisCache) Set(ctx context.Context, key string, rec banner.Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

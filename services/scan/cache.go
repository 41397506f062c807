package scan

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"assetscan/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const codeCachePrefix = "scan:code:"

var errCacheMiss = errors.New("cache miss")

// Cache is the key/value store used by CachedResolver.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", errCacheMiss
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedResolver is a read-through cache in front of another Resolver.
// Cache failures never fail a scan.
type CachedResolver struct {
	next   Resolver
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedResolver(next Resolver, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedResolver) Resolve(ctx context.Context, code string) ([]models.ResolvedAsset, error) {
	key := codeCachePrefix + code

	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var assets []models.ResolvedAsset
		if jerr := json.Unmarshal([]byte(data), &assets); jerr == nil && len(assets) > 0 {
			return assets, nil
		}
		r.logger.Warn("discarding unreadable scan cache entry", zap.String("code", code))
	case !errors.Is(err, errCacheMiss):
		r.logger.Warn("scan cache read failed", zap.String("code", code), zap.Error(err))
	}

	assets, err := r.next.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(assets)
	if err != nil {
		return assets, nil
	}
	if err := r.cache.Set(ctx, key, string(b), r.ttl); err != nil {
		r.logger.Warn("scan cache write failed", zap.String("code", code), zap.Error(err))
	}
	return assets, nil
}

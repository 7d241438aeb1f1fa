// README: Cached image search backed by Redis or an in-process go-cache.
package imagesearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores query → URL lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// Cached serves repeated queries from cache. Empty results are not cached.
type Cached struct {
	next  Searcher
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCached(next Searcher, cache Cache, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) Search(ctx context.Context, query string) (string, error) {
	key := cacheKey(query)
	if v, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("image cache read failed", zap.Error(err))
	} else if ok {
		return v, nil
	}

	v, err := c.next.Search(ctx, query)
	if err != nil || v == "" {
		return v, err
	}
	if err := c.cache.Set(ctx, key, v, c.ttl); err != nil {
		c.log.Warn("image cache write failed", zap.Error(err))
	}
	return v, nil
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(strings.Fields(query), " "))))
	return "voyager:img:" + hex.EncodeToString(sum[:16])
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"linker/internal/shortener/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	linkCachePrefix = "link:"
	linkCacheTTL    = 10 * time.Minute
	// linkFenceTTL must outlast any store read that can race an Invalidate.
	linkFenceTTL = 5 * time.Second
)

// setUnlessFenced writes KEYS[1] unless the fence KEYS[2] exists.
var setUnlessFenced = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// LinkCache defines the interface for link caching operations.
// Implementations should handle cache misses gracefully by returning nil, nil.
type LinkCache interface {
	// Get retrieves a link from cache by alias.
	// Returns nil, nil if the link is not in cache (cache miss).
	Get(ctx context.Context, alias string) (*domain.ShortLink, error)

	// Set stores a link in the cache. It is a no-op while the alias is
	// fenced by Invalidate.
	Set(ctx context.Context, link *domain.ShortLink) error

	// Evict removes a link from the cache.
	Evict(ctx context.Context, alias string) error

	// Invalidate removes a link and fences the alias for a short window, so a
	// read that started before the change cannot cache the old state.
	Invalidate(ctx context.Context, alias string) error
}

var (
	_ LinkCache = (*RedisLinkCache)(nil)
	_ LinkCache = (*noopLinkCache)(nil)
)

// NewRedisClient builds a client from a redis:// URL. An empty URL yields a nil client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// RedisLinkCache implements LinkCache using Redis.
type RedisLinkCache struct {
	rdb      *redis.Client
	logger   *zap.Logger
	ttl      time.Duration
	fenceTTL time.Duration
}

// NewRedisLinkCache creates a new Redis-based link cache.
// Returns a no-op cache if the Redis client is nil.
func NewRedisLinkCache(rdb *redis.Client, logger *zap.Logger) LinkCache {
	if rdb == nil {
		return &noopLinkCache{}
	}
	return &RedisLinkCache{
		rdb:      rdb,
		logger:   logger,
		ttl:      linkCacheTTL,
		fenceTTL: linkFenceTTL,
	}
}

// cachedLink is the serialization format for cached links.
type cachedLink struct {
	ID          string     `json:"id"`
	Alias       string     `json:"alias"`
	OriginalURL string     `json:"original_url"`
	IsActive    bool       `json:"is_active"`
	ClickCount  int64      `json:"click_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastClickAt *time.Time `json:"last_click_at,omitempty"`
}

// cacheKey and fenceKey share a hash tag so the fenced set stays in one slot.
func cacheKey(alias string) string {
	return linkCachePrefix + "{" + domain.NormalizeAlias(alias) + "}"
}

func fenceKey(alias string) string {
	return cacheKey(alias) + ":fence"
}

// Get retrieves a link from Redis cache.
func (c *RedisLinkCache) Get(ctx context.Context, alias string) (*domain.ShortLink, error) {
	data, err := c.rdb.Get(ctx, cacheKey(alias)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Warn("failed to get link from cache", zap.String("alias", alias), zap.Error(err))
		return nil, nil
	}

	var cached cachedLink
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("failed to unmarshal cached link", zap.String("alias", alias), zap.Error(err))
		return nil, nil
	}

	return &domain.ShortLink{
		ID:          cached.ID,
		Alias:       cached.Alias,
		OriginalURL: cached.OriginalURL,
		IsActive:    cached.IsActive,
		ClickCount:  cached.ClickCount,
		CreatedAt:   cached.CreatedAt,
		LastClickAt: cached.LastClickAt,
	}, nil
}

// Set stores a link in Redis cache. Cache failures never fail the caller.
func (c *RedisLinkCache) Set(ctx context.Context, link *domain.ShortLink) error {
	data, err := json.Marshal(cachedLink{
		ID:          link.ID,
		Alias:       link.Alias,
		OriginalURL: link.OriginalURL,
		IsActive:    link.IsActive,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
		LastClickAt: link.LastClickAt,
	})
	if err != nil {
		c.logger.Warn("failed to marshal link for cache", zap.String("alias", link.Alias), zap.Error(err))
		return nil
	}

	keys := []string{cacheKey(link.Alias), fenceKey(link.Alias)}
	if err := setUnlessFenced.Run(ctx, c.rdb, keys, data, c.ttl.Milliseconds()).Err(); err != nil {
		c.logger.Warn("failed to cache link", zap.String("alias", link.Alias), zap.Error(err))
	}
	return nil
}

// Evict removes a link from Redis cache.
func (c *RedisLinkCache) Evict(ctx context.Context, alias string) error {
	if err := c.rdb.Del(ctx, cacheKey(alias)).Err(); err != nil {
		c.logger.Warn("failed to evict cached link", zap.String("alias", alias), zap.Error(err))
	}
	return nil
}

// Invalidate deletes the entry and sets its fence in one transaction.
func (c *RedisLinkCache) Invalidate(ctx context.Context, alias string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, cacheKey(alias))
		pipe.Set(ctx, fenceKey(alias), 1, c.fenceTTL)
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to invalidate link cache", zap.String("alias", alias), zap.Error(err))
	}
	return nil
}

// noopLinkCache is used when Redis is not configured.
type noopLinkCache struct{}

func (noopLinkCache) Get(context.Context, string) (*domain.ShortLink, error) { return nil, nil }

func (noopLinkCache) Set(context.Context, *domain.ShortLink) error { return nil }

func (noopLinkCache) Evict(context.Context, string) error { return nil }

func (noopLinkCache) Invalidate(context.Context, string) error { return nil }

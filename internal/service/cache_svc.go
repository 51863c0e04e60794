package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// Cache hit/miss counters live next to the lookups that observe them; the
// request-level collectors stay in the handler package.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whitelist_cache_hits_total",
		Help: "Total Redis cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whitelist_cache_misses_total",
		Help: "Total Redis cache misses.",
	})
)

// Cache TTLs. Whitelist listings churn with every sync; preferences barely
// move.
const (
	WhitelistCacheTTL   = 5 * time.Minute
	PreferencesCacheTTL = 15 * time.Minute
)

// CacheService provides a Redis cache-aside layer for whitelist listings and
// preference reads, both keyed per owner.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetWhitelist retrieves a cached whitelist listing. Returns nil if not
// cached or cache is disabled.
func (c *CacheService) GetWhitelist(ctx context.Context, owner string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, whitelistKey(owner)).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, nil
	}
	if err == nil {
		cacheHits.Inc()
	}
	return data, err
}

// SetWhitelist stores a whitelist listing in cache.
func (c *CacheService) SetWhitelist(ctx context.Context, owner string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, whitelistKey(owner), b, WhitelistCacheTTL).Err()
}

// GetPreferences retrieves cached preferences. Returns nil if not cached.
func (c *CacheService) GetPreferences(ctx context.Context, owner string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, preferencesKey(owner)).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, nil
	}
	if err == nil {
		cacheHits.Inc()
	}
	return data, err
}

// SetPreferences stores a preferences response in cache.
func (c *CacheService) SetPreferences(ctx context.Context, owner string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, preferencesKey(owner), b, PreferencesCacheTTL).Err()
}

// InvalidateOwner drops every cached entry for one owner. Called after any
// mutation so the next read re-fetches from the database.
func (c *CacheService) InvalidateOwner(ctx context.Context, owner string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, whitelistKey(owner), preferencesKey(owner)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func whitelistKey(owner string) string {
	return fmt.Sprintf("wl:%s", owner)
}

func preferencesKey(owner string) string {
	return fmt.Sprintf("prefs:%s", owner)
}

package assist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores generated text keyed by prompt signature. Misses and backend
// errors look the same to callers.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// MemoryCache is an in-process TTL cache that evicts the least recently used
// entry when full
type MemoryCache struct {
	entries    map[string]*cacheEntry
	mutex      sync.RWMutex
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	stats      CacheStats
}

type cacheEntry struct {
	value        string
	createdAt    time.Time
	lastAccessed time.Time
	hitCount     int
}

// CacheStats tracks cache performance
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &MemoryCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, found := c.entries[key]
	if !found {
		c.stats.Misses++
		return "", false
	}
	now := c.now()
	if c.ttl > 0 && now.Sub(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		c.stats.Misses++
		c.stats.Evictions++
		return "", false
	}
	entry.lastAccessed = now
	entry.hitCount++
	c.stats.Hits++
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key, value string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	now := c.now()
	c.entries[key] = &cacheEntry{value: value, createdAt: now, lastAccessed: now}
}

// evictOldest must be called with mutex held
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
}

// PurgeExpired drops every expired entry and returns how many were removed
func (c *MemoryCache) PurgeExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.ttl <= 0 {
		return 0
	}
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	return removed
}

// RunJanitor purges expired entries every interval until ctx is done
func (c *MemoryCache) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.PurgeExpired()
		}
	}
}

func (c *MemoryCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	s := c.stats
	s.Size = len(c.entries)
	return s
}

// RedisCache shares generated text between instances
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return v, true
}

func (r *RedisCache) Set(ctx context.Context, key, value string) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Warn("redis cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Tiered checks the first cache before the second and fills the first on a
// hit in the second.
type Tiered struct {
	First, Second Cache
}

func (t Tiered) Get(ctx context.Context, key string) (string, bool) {
	if v, ok := t.First.Get(ctx, key); ok {
		return v, true
	}
	v, ok := t.Second.Get(ctx, key)
	if ok {
		t.First.Set(ctx, key, v)
	}
	return v, ok
}

func (t Tiered) Set(ctx context.Context, key, value string) {
	t.First.Set(ctx, key, value)
	t.Second.Set(ctx, key, value)
}

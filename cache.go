package losapi

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"
)

// GetCached performs a cacheable GET against target, memoized under cacheKey.
// A cache hit synthesizes the Resource straight from the stored JSON body and
// performs no network call; a miss performs exactly one live GET and stores
// the decoded body when the result is a non-error, non-empty resource. TTL
// precedence: call-supplied ttl, else the client's default TTL, else 600s.
func (c *Client) GetCached(ctx context.Context, target, cacheKey string, opts *CallOptions, ttl ...time.Duration) (*Resource, error) {
	if c.cache == nil {
		return nil, &ClientError{
			Type:    ErrorTypeConfiguration,
			Message: "cached call requested without a cache capability",
			Cause:   ErrNoCache,
			URL:     target,
		}
	}
	if cacheKey == "" {
		return nil, &ClientError{
			Type:    ErrorTypeValidation,
			Message: "cache key must not be empty",
			Cause:   ErrInvalidCacheKey,
		}
	}

	if value, ok := c.cache.Get(cacheKey); ok {
		if res, err := resourceFromJSON(value); err == nil {
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Cache hit", "cacheKey", cacheKey, "target", target)
			}
			c.metrics.RecordCacheHit(http.MethodGet, target)
			return res, nil
		}
		// Undecodable entry: fall through to a live fetch rather than
		// surfacing a stale serialization problem to the caller.
	}
	c.metrics.RecordCacheMiss(http.MethodGet, target)
	if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
		c.logger.Debug("Cache miss", "cacheKey", cacheKey, "target", target)
	}

	res, err := c.Get(ctx, target, opts)
	if err != nil {
		return nil, err
	}

	if res != nil && !res.IsError() {
		if data := res.Map(); len(data) > 0 {
			if encoded, err := json.Marshal(data); err == nil {
				effective := c.defaultTTL
				if len(ttl) > 0 && ttl[0] > 0 {
					effective = ttl[0]
				}
				if effective <= 0 {
					effective = DefaultTTL
				}
				if err := c.cache.Set(cacheKey, string(encoded), effective); err == nil {
					if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
						c.logger.Debug("Response cached", "cacheKey", cacheKey, "ttl", effective)
					}
				}
			}
		}
	}

	return res, nil
}

// InMemoryCache is a sharded in-memory Cache implementation with expiry on
// read. It is safe for concurrent use.
type InMemoryCache struct {
	shards    []*cacheShard
	numShards int
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewInMemoryCache creates an empty cache with a fixed shard count.
func NewInMemoryCache() *InMemoryCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{
			store: make(map[string]*cacheEntry),
		}
	}
	return &InMemoryCache{
		shards:    shards,
		numShards: numShards,
	}
}

func (c *InMemoryCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

// Get returns the stored value for key, expiring stale entries on read.
func (c *InMemoryCache) Get(key string) (string, bool) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, exists := shard.store[key]
	if !exists {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(shard.store, key)
		return "", false
	}
	return entry.value, true
}

// Has reports whether a live entry exists for key.
func (c *InMemoryCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores value under key for ttl. Empty keys are rejected.
func (c *InMemoryCache) Set(key string, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.store[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes key from the cache.
func (c *InMemoryCache) Delete(key string) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.store, key)
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]*cacheEntry)
		shard.mu.Unlock()
	}
}

// Len returns the total number of live entries across shards.
func (c *InMemoryCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}

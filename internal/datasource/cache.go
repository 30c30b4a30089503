package datasource

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/f1-standings/internal/metrics"
)

// ResponseCache keeps raw upstream response bodies keyed by request URL
type ResponseCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// CacheStats represents cache performance statistics
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	HitRate float64
	Size    int
}

// NewResponseCache creates a new response cache. A zero ttl disables caching.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached body
func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	if rc == nil || rc.ttl <= 0 {
		return nil, false
	}

	value, found := rc.cache.Get(key)
	body, ok := value.([]byte)
	hit := found && ok

	rc.mu.Lock()
	if hit {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	ratio := hitRate(rc.hitCount, rc.missCount)
	rc.mu.Unlock()

	metrics.RecordCacheLookup(hit, ratio)
	return body, hit
}

// Set stores a body
func (rc *ResponseCache) Set(key string, body []byte) {
	if rc == nil || rc.ttl <= 0 {
		return
	}
	rc.cache.Set(key, body, rc.ttl)
}

// Flush clears all cached entries
func (rc *ResponseCache) Flush() {
	if rc == nil {
		return
	}
	rc.cache.Flush()
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() CacheStats {
	if rc == nil {
		return CacheStats{}
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return CacheStats{
		Hits:    rc.hitCount,
		Misses:  rc.missCount,
		HitRate: hitRate(rc.hitCount, rc.missCount),
		Size:    rc.cache.ItemCount(),
	}
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/cboyd0319/JobSentinel-sub004/internal/observability"
	"github.com/cboyd0319/JobSentinel-sub004/services/providers"
)

// Config holds the cache tuning knobs
type Config struct {
	// TTL bounds the age of a usable entry; an entry whose age has reached
	// the TTL is expired
	TTL time.Duration

	// MaxEntries bounds the cache size; the least recently used entry is
	// evicted when the bound is hit
	MaxEntries int
}

// DefaultConfig returns the production cache defaults
func DefaultConfig() Config {
	return Config{
		TTL:        time.Hour,
		MaxEntries: 1024,
	}
}

// Key returns the cache key for a prompt: the hex SHA-256 digest of the raw
// prompt bytes. Only the prompt text participates; two requests with the
// same prompt but different system prompts or sampling parameters share an
// entry. The prompt is hashed as-is, so "summarize" and "Summarize" are
// distinct keys.
func Key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// cacheEntry represents a single cached response with its insertion time
type cacheEntry struct {
	key        string
	response   providers.GenerationResponse
	insertedAt time.Time
	element    *list.Element // For LRU tracking
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry) isExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.insertedAt) >= ttl
}

// Service is an in-memory LRU cache with TTL for generation responses.
// Thread-safe implementation using sync.RWMutex. Expired entries are purged
// lazily on read; CleanupExpired handles entries nothing reads again.
type Service struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry // Key: Key(prompt)
	lruList    *list.List             // Doubly linked list for LRU tracking
	maxEntries int
	ttl        time.Duration
	hits       uint64
	misses     uint64
	now        func() time.Time
}

// NewService creates a response cache; zero config values take the defaults
func NewService(cfg Config) *Service {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}

	return &Service{
		entries:    make(map[string]*cacheEntry),
		lruList:    list.New(),
		maxEntries: cfg.MaxEntries,
		ttl:        cfg.TTL,
		now:        time.Now,
	}
}

// Get retrieves the cached response for a prompt. On a hit it returns a
// copy with Cached set to true; the stored original is never mutated, so
// callers may modify the returned value freely. An expired entry is removed
// and counts as a miss.
func (c *Service) Get(prompt string) (*providers.GenerationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(prompt)
	entry, exists := c.entries[key]

	if !exists || entry.isExpired(c.now(), c.ttl) {
		c.misses++
		observability.CacheMisses.Inc()
		if exists {
			// Lazy purge of the expired entry
			c.removeEntry(key, observability.EvictionExpired)
		}
		return nil, false
	}

	// Move to front (most recently used)
	c.lruList.MoveToFront(entry.element)
	c.hits++
	observability.CacheHits.Inc()

	resp := entry.response
	resp.Cached = true
	return &resp, true
}

// Set stores a copy of the response under the prompt's key, overwriting any
// previous entry and resetting its age. The stored copy always has Cached
// false.
func (c *Service) Set(prompt string, resp *providers.GenerationResponse) {
	if resp == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(prompt)
	stored := *resp
	stored.Cached = false

	// Check if entry already exists
	if entry, exists := c.entries[key]; exists {
		entry.response = stored
		entry.insertedAt = c.now()
		c.lruList.MoveToFront(entry.element)
		return
	}

	// Evict least recently used entry if cache is full
	if c.lruList.Len() >= c.maxEntries {
		c.evictLRU()
	}

	entry := &cacheEntry{
		key:        key,
		response:   stored,
		insertedAt: c.now(),
	}

	// Add to front of LRU list
	entry.element = c.lruList.PushFront(key)
	c.entries[key] = entry
}

// Clear removes all entries from the cache
func (c *Service) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.entries); n > 0 {
		observability.CacheEvictions.WithLabelValues(observability.EvictionCleared).Add(float64(n))
	}
	c.entries = make(map[string]*cacheEntry)
	c.lruList.Init()
}

// Stats represents cache statistics
type Stats struct {
	Entries    int
	MaxEntries int
	Hits       uint64
	Misses     uint64
	HitRate    float64
}

// Stats returns cache statistics
func (c *Service) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries:    c.lruList.Len(),
		MaxEntries: c.maxEntries,
		Hits:       c.hits,
		Misses:     c.misses,
		HitRate:    c.calculateHitRate(),
	}
}

// calculateHitRate calculates the cache hit rate (must be called with lock held)
func (c *Service) calculateHitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// removeEntry removes an entry from the cache (must be called with lock held)
func (c *Service) removeEntry(key, reason string) {
	if entry, exists := c.entries[key]; exists {
		c.lruList.Remove(entry.element)
		delete(c.entries, key)
		observability.CacheEvictions.WithLabelValues(reason).Inc()
	}
}

// evictLRU evicts the least recently used entry (must be called with lock held)
func (c *Service) evictLRU() {
	backElement := c.lruList.Back()
	if backElement != nil {
		key := backElement.Value.(string)
		c.removeEntry(key, observability.EvictionLRU)
	}
}

// CleanupExpired removes all expired entries and returns how many went.
// Should be called periodically from a background goroutine.
func (c *Service) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredKeys := make([]string, 0)
	for key, entry := range c.entries {
		if entry.isExpired(now, c.ttl) {
			expiredKeys = append(expiredKeys, key)
		}
	}

	for _, key := range expiredKeys {
		c.removeEntry(key, observability.EvictionExpired)
	}

	return len(expiredKeys)
}

// StartCleanupWorker runs CleanupExpired on a ticker until stopCh closes
func (c *Service) StartCleanupWorker(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-stopCh:
			return
		}
	}
}

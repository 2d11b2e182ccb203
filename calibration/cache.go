package calibration

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 3600 * time.Second
	ShortTTL   = 300 * time.Second
)

type cachedEntry struct {
	info     *Info
	cachedAt time.Time
}

// Cache keeps the latest snapshot per backend name and expires entries after
// a fixed TTL. It is safe for concurrent use; concurrent GetOrFetch calls for
// the same backend share one fetch.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cachedEntry
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: map[string]cachedEntry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

func NewDefaultCache() *Cache {
	return NewCache(DefaultTTL)
}

func NewShortCache() *Cache {
	return NewCache(ShortTTL)
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) alive(e cachedEntry) bool {
	return c.now().Sub(e.cachedAt) < c.ttl
}

// Get returns a copy of the cached snapshot if it has not expired.
func (c *Cache) Get(backend string) (*Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[backend]
	if !ok || !c.alive(e) {
		return nil, false
	}
	return e.info.Clone(), true
}

func (c *Cache) Set(backend string, info *Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[backend] = cachedEntry{info: info.Clone(), cachedAt: c.now()}
}

func (c *Cache) Invalidate(backend string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, backend)
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cachedEntry{}
}

func (c *Cache) IsValid(backend string) bool {
	_, ok := c.Get(backend)
	return ok
}

// GetOrFetch returns the cached snapshot or calls fetch and caches its result.
// Fetch errors are returned and nothing is cached.
func (c *Cache) GetOrFetch(backend string, fetch func() (*Info, error)) (*Info, error) {
	if info, ok := c.Get(backend); ok {
		return info, nil
	}
	v, err, shared := c.group.Do(backend, func() (interface{}, error) {
		info, err := fetch()
		if err != nil {
			return nil, err
		}
		c.Set(backend, info)
		return info, nil
	})
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to fetch calibration/backend:%s", backend), zap.Error(err))
		return nil, err
	}
	if shared {
		zap.L().Debug(fmt.Sprintf("shared calibration fetch/backend:%s", backend))
	}
	return v.(*Info).Clone(), nil
}

// Len counts entries including expired ones not yet cleaned up.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) IsEmpty() bool {
	return c.Len() == 0
}

func (c *Cache) CachedBackends() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for k := range c.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (c *Cache) CleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if !c.alive(e) {
			delete(c.entries, k)
		}
	}
}

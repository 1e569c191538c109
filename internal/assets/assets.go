// Package assets fetches manifest and model bytes from an HTTP server or a
// local directory, with an optional in-memory cache.
package assets

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// Manager wraps a Source with caching. It satisfies Source itself.
type Manager struct {
	src   Source
	cache *Cache // nil when caching is off
}

// NewManager creates a manager over src. When cache is false every Fetch
// goes to the source.
func NewManager(src Source, cache bool) *Manager {
	m := &Manager{src: src}
	if cache {
		m.cache = NewCache()
	}
	return m
}

// Fetch returns cached bytes when present, otherwise reads from the source.
// Failed fetches are not cached.
func (m *Manager) Fetch(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	if m.cache != nil {
		if data, ok := m.cache.Get(path); ok {
			if progress != nil {
				n := int64(len(data))
				progress(n, n)
			}
			return data, nil
		}
	}

	data, err := m.src.Fetch(ctx, path, progress)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		m.cache.Set(path, data)
		logger.Debug("asset cached", zap.String("path", path), zap.Int("bytes", len(data)))
	}
	return data, nil
}

// Invalidate drops path from the cache.
func (m *Manager) Invalidate(path string) {
	if m.cache != nil {
		m.cache.Delete(path)
	}
}

// Cache returns the cache, or nil when caching is off.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all cached data.
func (m *Manager) Close() {
	if m.cache != nil {
		m.cache.Clear()
	}
}

// Cache is a simple in-memory cache for fetched assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache and its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

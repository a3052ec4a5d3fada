package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var _ ports.CategoryCache = (*MemoryCategoryCache)(nil)

// MemoryCategoryCache is a process-local TTL cache.
type MemoryCategoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	value     *projection.Projection[*domain.Category]
	expiresAt time.Time
}

// NewMemoryCategoryCache builds an empty cache. A zero ttl never expires entries.
func NewMemoryCategoryCache(ttl time.Duration) *MemoryCategoryCache {
	return &MemoryCategoryCache{entries: map[string]memoryEntry{}, ttl: ttl, now: time.Now}
}

// Get returns an unexpired entry.
func (c *MemoryCategoryCache) Get(_ context.Context, id string) (*projection.Projection[*domain.Category], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		return nil, false
	}
	return copyProjection(entry.value), true
}

// Set stores a copy of p.
func (c *MemoryCategoryCache) Set(_ context.Context, p *projection.Projection[*domain.Category]) {
	if p == nil || p.Entity == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := memoryEntry{value: copyProjection(p)}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[p.Entity.ID] = entry
}

// Invalidate drops the given categories.
func (c *MemoryCategoryCache) Invalidate(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
	}
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCategoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copyProjection(p *projection.Projection[*domain.Category]) *projection.Projection[*domain.Category] {
	return &projection.Projection[*domain.Category]{Entity: p.Entity.Clone(), Metadata: p.Metadata}
}

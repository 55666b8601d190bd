package identity

import (
	"container/list"
	"context"
	"sync"

	"refguard/pkg/domain"
)

// MemoryCache is a bounded in-process LRU cache. When full, the least
// recently used entry is evicted, so a burst of one-off profiles cannot grow
// the cache without bound.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[domain.ProfileID]*list.Element
}

type cacheEntry struct {
	profileID domain.ProfileID
	userID    domain.UserID
}

// NewMemoryCache creates a cache holding at most capacity entries.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[domain.ProfileID]*list.Element, capacity),
	}
}

func (c *MemoryCache) Get(_ context.Context, profileID domain.ProfileID) (domain.UserID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[profileID]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).userID, true
}

func (c *MemoryCache) Set(_ context.Context, profileID domain.ProfileID, userID domain.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[profileID]; ok {
		el.Value.(*cacheEntry).userID = userID
		c.order.MoveToFront(el)
		return
	}

	c.entries[profileID] = c.order.PushFront(&cacheEntry{profileID: profileID, userID: userID})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).profileID)
	}
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

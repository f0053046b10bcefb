package cache

import (
	"container/list"
	"sync"
	"time"
)

// EvictReason says why an entry left the cache.
type EvictReason string

const (
	EvictExpired  EvictReason = "expired"
	EvictCapacity EvictReason = "capacity"
	EvictDeleted  EvictReason = "deleted"
)

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// LRUCache bounds entries by count and by age. A maxSize of zero or less
// means no count limit. Lookups do not extend an entry's lifetime; only Set
// does.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	onEvict func(key string, reason EvictReason)
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	stats   Stats
}

type entry[T any] struct {
	key     string
	value   T
	expires time.Time
}

func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// WithClock replaces the time source.
func (c *LRUCache[T]) WithClock(now func() time.Time) *LRUCache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// OnEvict registers fn to be called for every removed entry. fn runs with the
// cache locked and must not call back into it.
func (c *LRUCache[T]) OnEvict(fn func(key string, reason EvictReason)) *LRUCache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
	return c
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if c.expired(e, c.now()) {
		c.remove(elem, EvictExpired)
		c.stats.Misses++
		return zero, false
	}
	c.order.MoveToFront(elem)
	c.stats.Hits++
	return e.value, true
}

// Set stores value under key with a fresh TTL, evicting the least recently
// used entry when the cache is full.
func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, expires: c.now().Add(c.ttl)}
	if elem, ok := c.entries[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}
	c.entries[key] = c.order.PushFront(e)

	if c.maxSize > 0 && c.order.Len() > c.maxSize {
		c.remove(c.order.Back(), EvictCapacity)
	}
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.remove(elem, EvictDeleted)
	}
}

// CleanExpired drops every expired entry and returns how many went.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expired(elem.Value.(*entry[T]), now) {
			c.remove(elem, EvictExpired)
			removed++
		}
		elem = prev
	}
	return removed
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *LRUCache[T]) expired(e *entry[T], now time.Time) bool {
	return !now.Before(e.expires)
}

func (c *LRUCache[T]) remove(elem *list.Element, reason EvictReason) {
	e := elem.Value.(*entry[T])
	delete(c.entries, e.key)
	c.order.Remove(elem)
	c.stats.Evictions++
	if c.onEvict != nil {
		c.onEvict(e.key, reason)
	}
}

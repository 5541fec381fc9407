package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/hirematch/pkg/metrics"
)

// node is one entry in insertion order, oldest at tail.
type node struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *node
	next      *node
}

func (n *node) reset() {
	*n = node{}
}

// MemoryCache is a bounded in-process cache. When full, the oldest inserted
// entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*node
	head       *node // newest
	tail       *node // oldest
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	nodePool   sync.Pool
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache with 1024 entries and a 5 minute TTL unless
// overridden.
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		maxEntries: defaultMaxEntries,
		ttl:        defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node, c.maxEntries)
	c.nodePool = sync.Pool{
		New: func() any {
			return &node{}
		},
	}
	return c
}

// Get returns a copy of the stored value.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if c.expired(n) {
		c.remove(n)
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return slices.Clone(n.value), true
}

// Set stores a copy of value, replacing any entry under key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(old)
	}
	for len(c.entries) >= c.maxEntries {
		c.remove(c.tail)
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.value = slices.Clone(value)
	if c.ttl > 0 {
		n.expiresAt = c.now().Add(c.ttl)
	}
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.entries[key] = n
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) expired(n *node) bool {
	return !n.expiresAt.IsZero() && !c.now().Before(n.expiresAt)
}

// remove unlinks n. Must be called with c.mu held.
func (c *MemoryCache) remove(n *node) {
	if n == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
}

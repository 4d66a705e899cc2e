package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

type Config struct {
	MaxSize int
	TTL     time.Duration
}

// LRUCache - small in-memory cache with TTL. Used to keep upstream order
// fetches off the hot path; entries are invalidated on local mutations.
type LRUCache[K comparable, V any] struct {
	maxSize int
	ttl     time.Duration
	mu      sync.Mutex
	items   map[K]*list.Element
	order   *list.List
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	createdAt time.Time
}

func New[K comparable, V any](config Config) *LRUCache[K, V] {
	if config.MaxSize <= 0 {
		config.MaxSize = 100
	}

	return &LRUCache[K, V]{
		maxSize: config.MaxSize,
		ttl:     config.TTL,
		items:   make(map[K]*list.Element),
		order:   list.New(),
	}
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	element, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := element.Value.(*entry[K, V])

	if c.ttl > 0 && time.Since(item.createdAt) > c.ttl {
		c.removeElement(element)
		return zero, false
	}

	c.order.MoveToFront(element)
	return item.value, true
}

func (c *LRUCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		item := element.Value.(*entry[K, V])
		item.value = value
		item.createdAt = time.Now()
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&entry[K, V]{
		key:       key,
		value:     value,
		createdAt: time.Now(),
	})
	c.items[key] = element

	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *LRUCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		c.removeElement(element)
	}
}

// DeletePrefix drops every string-keyed entry under the prefix; used to
// invalidate all role-scoped copies of a collection at once.
func (c *LRUCache[K, V]) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, element := range c.items {
		if strKey, ok := any(key).(string); ok && strings.HasPrefix(strKey, prefix) {
			c.removeElement(element)
		}
	}
}

func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order = list.New()
}

func (c *LRUCache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRUCache[K, V]) removeElement(element *list.Element) {
	item := element.Value.(*entry[K, V])
	delete(c.items, item.key)
	c.order.Remove(element)
}

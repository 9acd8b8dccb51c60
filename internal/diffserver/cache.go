package diffserver

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// entry is the value stored in the LRU's backing list.
type entry[V any] struct {
	key   uint64
	value V
}

// LRUCache is a fixed-capacity, thread-safe least-recently-used cache
// keyed by an xxhash digest of the caller's natural key (the server
// hashes each watched file's path, size, and modification time; see
// statKey). Used to memoize Diff/Merge results for repeated requests
// against unchanged watched files.
type LRUCache[V any] struct {
	mu       sync.Mutex
	maxSize  int
	ll       *list.List
	elements map[uint64]*list.Element
}

// NewLRUCache creates a cache holding at most maxSize entries.
func NewLRUCache[V any](maxSize int) *LRUCache[V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LRUCache[V]{
		maxSize:  maxSize,
		ll:       list.New(),
		elements: make(map[uint64]*list.Element),
	}
}

// HashKey digests an arbitrary sequence of byte strings into the
// uint64 key used by Get/Put, so callers never have to concatenate
// multiple blobs (base+side1+side2) before hashing.
func HashKey(parts ...[]byte) uint64 {
	var h xxhash.Digest
	h.Reset()
	for _, p := range parts {
		_, _ = h.Write(p)
		_, _ = h.Write([]byte{0}) // separator, avoids "ab"+"c" == "a"+"bc" collisions
	}
	return h.Sum64()
}

// Get returns the cached value for key and moves it to the front.
func (c *LRUCache[V]) Get(key uint64) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.elements[key]
	if !ok {
		return zero, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry[V]).value, true
}

// Put inserts or updates key's value, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *LRUCache[V]) Put(key uint64, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.elements[key]; ok {
		el.Value.(*entry[V]).value = value
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry[V]{key: key, value: value})
	c.elements[key] = el

	if c.ll.Len() > c.maxSize {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.elements, oldest.Value.(*entry[V]).key)
		}
	}
}

// Len returns the current number of cached entries.
func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Clear empties the cache.
func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.elements = make(map[uint64]*list.Element)
}

// Package cache provides a thread-safe LRU cache for compiled Products.
//
// Building a Product (parse, index, domain analysis, const folding,
// compile) is the expensive step of the pipeline; the cache lets a host
// that revaluates the same script many times (different scenarios, same
// text) skip straight to a cached *types.Product. Keys are BLAKE2b-256
// digests of every event's date and length-prefixed text rather than the
// raw text itself, so a multi-event product with large per-event scripts
// still hashes to a fixed-size key cheaply.
//
// # Example
//
//	c := cache.New(1024)
//	p, err := c.GetOrBuild(events, build)
package cache

import (
	"container/list"
	"encoding/binary"
	"math"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/nummus/payoffscript/pkg/product"
	"github.com/nummus/payoffscript/pkg/types"
)

// Key is a BLAKE2b-256 digest identifying a set of event inputs.
type Key [blake2b.Size256]byte

// KeyOf hashes inputs into a Key. Event text is hashed in input order with
// a length prefix per entry, so the key depends on text and date both, not
// just their concatenation (which could collide across different splits).
func KeyOf(inputs []product.EventInput) Key {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	for _, in := range inputs {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(in.Date)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(len(in.Text)))
		h.Write(buf[:])
		h.Write([]byte(in.Text))
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

type entry struct {
	key Key
	p   *types.Product
}

// Cache is a thread-safe LRU (Least Recently Used) cache for compiled
// Products. Once the capacity is reached, the least recently accessed
// entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[Key]*list.Element
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, a default of 256 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[Key]*list.Element, capacity),
	}
}

// Get retrieves a compiled Product from the cache by key, moving it to
// front (MRU) on a hit.
func (c *Cache) Get(key Key) (*types.Product, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !alreadyFront {
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()

		if !ok {
			return nil, false
		}
	}
	return el.Value.(*entry).p, true
}

// Set inserts or replaces a Product in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key Key, p *types.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).p = p
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: key, p: p})
	c.items[key] = el
}

// GetOrBuild retrieves the Product for inputs from cache, or calls build()
// to create it, caches the result, and returns it. Errors are not cached,
// so a failed build runs again on the next call for the same key, and
// concurrent misses on one key may each call build.
func (c *Cache) GetOrBuild(inputs []product.EventInput, build func() (*types.Product, error)) (*types.Product, error) {
	key := KeyOf(inputs)
	if p, ok := c.Get(key); ok {
		return p, nil
	}
	p, err := build()
	if err != nil {
		return nil, err
	}
	c.Set(key, p)
	return p, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[Key]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

package bitcache

import (
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// DefaultTTL is the idle window after which an unused entry expires.
const DefaultTTL = 4 * time.Hour

// Cache maps keys to complete block-ordinal bitmaps. Entries expire
// independently after sitting unused for the idle window, regardless of
// cache size; expired entries are removed lazily on the next access.
//
// The store is guarded by one mutex. Write throughput is deliberately
// traded for simplicity: inserts come from a single background worker and
// the synchronous query path only pays the short critical section of a
// lookup.
type Cache[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	bm         *roaring.Bitmap
	lastAccess time.Time
}

// New creates a cache. ttl <= 0 selects DefaultTTL; a nil clock selects
// time.Now.
func New[K comparable](ttl time.Duration, now func() time.Time) *Cache[K] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache[K]{
		entries: make(map[K]*entry),
		ttl:     ttl,
		now:     now,
	}
}

// Lookup returns a clone of the cached bitmap for k, refreshing the
// entry's last-access time. It returns false on a miss or when the entry
// has sat idle past the TTL.
func (c *Cache[K]) Lookup(k K) (*roaring.Bitmap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if now.Sub(e.lastAccess) > c.ttl {
		delete(c.entries, k)
		return nil, false
	}
	e.lastAccess = now
	return e.bm.Clone(), true
}

// LookupMany resolves all keys inside one critical section and returns
// clones of every hit. Cloning before the lock is released is what makes
// the cached/uncached partition safe: an entry seen as cached here cannot
// be evicted or replaced before the caller intersects it.
func (c *Cache[K]) LookupMany(keys []K) map[K]*roaring.Bitmap {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	hits := make(map[K]*roaring.Bitmap, len(keys))
	for _, k := range keys {
		e, ok := c.entries[k]
		if !ok {
			continue
		}
		if now.Sub(e.lastAccess) > c.ttl {
			delete(c.entries, k)
			continue
		}
		e.lastAccess = now
		hits[k] = e.bm.Clone()
	}
	return hits
}

// Contains reports whether k has a live entry. Unlike Lookup it does not
// refresh the last-access time; it is used by the background builder to
// skip redundant work.
func (c *Cache[K]) Contains(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return false
	}
	if c.now().Sub(e.lastAccess) > c.ttl {
		delete(c.entries, k)
		return false
	}
	return true
}

// Put inserts a complete bitmap for k, taking ownership of bm. Last
// writer wins: concurrent rebuilds of the same key over the same block
// list produce identical bitmaps, so overwriting is harmless.
func (c *Cache[K]) Put(k K, bm *roaring.Bitmap) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[k] = &entry{bm: bm, lastAccess: c.now()}
}

// Len returns the number of entries, including any not yet lazily
// expired.
func (c *Cache[K]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes every expired entry. Expiry is lazy by default; Sweep is
// for callers that want to bound memory between accesses.
func (c *Cache[K]) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.lastAccess) > c.ttl {
			delete(c.entries, k)
		}
	}
}

package engine

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/balance/model"
)

// DefaultCacheCapacity bounds a FactorCache created with capacity ≤ 0.
const DefaultCacheCapacity = 128

// FactorCache remembers the optimal basis of previously solved problems so a
// re-solve of the same *model.Problem (typically after changing costs or
// right-hand sides) can warm-start simplex. Entries are keyed by problem
// identity; a basis is offered only when the standard-form shape still
// matches, and simplex itself rejects a hint that is no longer feasible.
//
// The cache is owned by the caller and safe for concurrent use.
type FactorCache struct {
	entries *lru.Cache[*model.Problem, cacheEntry]
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheEntry struct {
	revision   uint64
	rows, cols int
	basis      []int
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}

// NewFactorCache returns an empty cache holding at most capacity problems;
// the least recently used entry is evicted first.
func NewFactorCache(capacity int) *FactorCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	entries, err := lru.New[*model.Problem, cacheEntry](capacity)
	if err != nil {
		// lru.New fails only for a non-positive size.
		panic(err)
	}

	return &FactorCache{entries: entries}
}

// Lookup returns a copy of the basis stored for p when its shape is rows×cols.
// fresh reports that p has not been modified since the basis was stored.
func (c *FactorCache) Lookup(p *model.Problem, rows, cols int) (basis []int, fresh, ok bool) {
	e, found := c.entries.Get(p)
	if !found || e.rows != rows || e.cols != cols {
		c.misses.Add(1)
		return nil, false, false
	}
	c.hits.Add(1)

	return append([]int(nil), e.basis...), e.revision == p.Revision(), true
}

// Store records basis for p at its current revision.
func (c *FactorCache) Store(p *model.Problem, rows, cols int, basis []int) {
	if p == nil || basis == nil {
		return
	}
	c.entries.Add(p, cacheEntry{
		revision: p.Revision(),
		rows:     rows,
		cols:     cols,
		basis:    append([]int(nil), basis...),
	})
}

// Forget drops the entry of p.
func (c *FactorCache) Forget(p *model.Problem) { c.entries.Remove(p) }

// Stats returns the current counters.
func (c *FactorCache) Stats() CacheStats {
	return CacheStats{
		Entries: c.entries.Len(),
		Hits:    int(c.hits.Load()),
		Misses:  int(c.misses.Load()),
	}
}

package engine_test

import (
	"testing"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
	"github.com/stretchr/testify/require"
)

func TestFactorCacheLookup(t *testing.T) {
	c := engine.NewFactorCache(2)
	p := twoProducts()

	_, _, ok := c.Lookup(p, 2, 4)
	require.False(t, ok)

	basis := []int{0, 1}
	c.Store(p, 2, 4, basis)
	basis[0] = 9

	got, fresh, ok := c.Lookup(p, 2, 4)
	require.True(t, ok)
	require.True(t, fresh)
	require.Equal(t, []int{0, 1}, got)

	_, _, ok = c.Lookup(p, 3, 4)
	require.False(t, ok)

	// A modified problem is still offered, marked stale.
	_, _ = p.AddVariable(0, inf, 1)
	_, fresh, ok = c.Lookup(p, 2, 4)
	require.True(t, ok)
	require.False(t, fresh)

	require.Equal(t, engine.CacheStats{Entries: 1, Hits: 2, Misses: 2}, c.Stats())
}

func TestFactorCacheEvictsLeastRecent(t *testing.T) {
	c := engine.NewFactorCache(2)
	ps := []*model.Problem{twoProducts(), twoProducts(), twoProducts()}
	for _, p := range ps {
		c.Store(p, 2, 4, []int{0, 1})
	}
	require.Equal(t, 2, c.Stats().Entries)
	_, _, ok := c.Lookup(ps[0], 2, 4)
	require.False(t, ok)
	_, _, ok = c.Lookup(ps[2], 2, 4)
	require.True(t, ok)

	c.Forget(ps[2])
	c.Forget(ps[2])
	require.Equal(t, 1, c.Stats().Entries)
	c.Store(nil, 2, 4, []int{0})
	require.Equal(t, 1, c.Stats().Entries)

	// A lookup refreshes recency: ps[1] survives, ps[3] evicts ps[2].
	c = engine.NewFactorCache(2)
	ps = append(ps, twoProducts())
	c.Store(ps[1], 2, 4, []int{0, 1})
	c.Store(ps[2], 2, 4, []int{0, 1})
	_, _, ok = c.Lookup(ps[1], 2, 4)
	require.True(t, ok)
	c.Store(ps[3], 2, 4, []int{0, 1})
	_, _, ok = c.Lookup(ps[2], 2, 4)
	require.False(t, ok)
	_, _, ok = c.Lookup(ps[1], 2, 4)
	require.True(t, ok)
}

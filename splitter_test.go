package splitplan

import (
	"context"
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpx7/splitplan/catalog"
	"github.com/hpx7/splitplan/predicate"
	"github.com/hpx7/splitplan/testutil"
)

// testCatalog has 4 blocks across 2 files: "a" holds ordinals 0 and 1,
// "b" holds ordinals 2 and 3. Column "v" ranges are chosen so that
// v = 5 statistics-excludes ordinal 1 only.
func testCatalog() *catalog.Catalog {
	schema := predicate.Schema{"v": predicate.KindInt}
	blocks := []catalog.Block{
		testutil.Block("a", 0, 100, 10, map[string]predicate.Stats{"v": testutil.IntStats(0, 9, 0)}),
		testutil.Block("a", 100, 150, 10, map[string]predicate.Stats{"v": testutil.IntStats(10, 19, 0)}),
		testutil.Block("b", 0, 200, 10, map[string]predicate.Stats{"v": testutil.IntStats(0, 50, 0)}),
		testutil.Block("b", 200, 250, 10, map[string]predicate.Stats{"v": testutil.IntStats(5, 9, 0)}),
	}
	return catalog.New("/data", schema, blocks)
}

func newTestSplitter(t *testing.T, opts ...Option) *CachingSplitter {
	t.Helper()
	opts = append([]Option{WithLogger(NoopLogger())}, opts...)
	s, err := NewCachingSplitter(testCatalog(), opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func fileA() FileStatus { return FileStatus{Path: "/data/a", Size: 250} }
func fileB() FileStatus { return FileStatus{Path: "/data/b", Size: 450} }

func TestNewCachingSplitterNilCatalog(t *testing.T) {
	_, err := NewCachingSplitter(nil)
	assert.ErrorIs(t, err, ErrNilCatalog)
}

func TestDefaultSplitterWholeFile(t *testing.T) {
	fn := DefaultSplitter{}.Plan(context.Background(), []predicate.Predicate{
		predicate.Eq("v", predicate.Int64(5)),
	})

	assert.Equal(t, []Split{{Path: "/data/a", Offset: 0, Length: 250}}, fn(fileA()))
	assert.Equal(t, []Split{{Path: "/data/b", Offset: 0, Length: 450}}, fn(fileB()))
}

func TestPlanNoPredicates(t *testing.T) {
	s := newTestSplitter(t)

	fn := s.Plan(context.Background(), nil)
	assert.Len(t, fn(fileA()), 2)
	assert.Len(t, fn(fileB()), 2)
}

func TestPlanStatisticsFilterColdCache(t *testing.T) {
	s := newTestSplitter(t)
	p1 := predicate.Eq("v", predicate.Int64(5)) // excludes ordinal 1 only

	fn := s.Plan(context.Background(), []predicate.Predicate{p1})

	assert.Equal(t, []Split{{Path: "/data/a", Offset: 0, Length: 100}}, fn(fileA()))
	assert.Equal(t, []Split{
		{Path: "/data/b", Offset: 0, Length: 200},
		{Path: "/data/b", Offset: 200, Length: 250},
	}, fn(fileB()))
}

func TestPlanCacheEquivalence(t *testing.T) {
	// The cache is a pure optimization: the cold-cache output and the
	// cached-bitmap output must be identical.
	s := newTestSplitter(t)
	p1 := predicate.Eq("v", predicate.Int64(5))

	cold := s.Plan(context.Background(), []predicate.Predicate{p1})
	coldA, coldB := cold(fileA()), cold(fileB())

	// The first call schedules the bitmap build; wait for it to land.
	require.Eventually(t, func() bool {
		return s.cache.Contains(p1)
	}, 2*time.Second, 5*time.Millisecond)

	bm, ok := s.cache.Lookup(p1)
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 2, 3}, bm.ToArray())

	warm := s.Plan(context.Background(), []predicate.Predicate{p1})
	assert.Equal(t, coldA, warm(fileA()))
	assert.Equal(t, coldB, warm(fileB()))
}

func TestPlanIntersectsCachedBitmaps(t *testing.T) {
	s := newTestSplitter(t)
	p1 := predicate.Eq("v", predicate.Int64(5))
	p2 := predicate.Eq("v", predicate.Int64(6))

	s.cache.Put(p1, roaring.BitmapOf(0, 2, 3))
	s.cache.Put(p2, roaring.BitmapOf(0, 1, 3))

	fn := s.Plan(context.Background(), []predicate.Predicate{p1, p2})

	// Intersection {0, 3}.
	assert.Equal(t, []Split{{Path: "/data/a", Offset: 0, Length: 100}}, fn(fileA()))
	assert.Equal(t, []Split{{Path: "/data/b", Offset: 200, Length: 250}}, fn(fileB()))
}

func TestPlanEmptyIntersection(t *testing.T) {
	s := newTestSplitter(t)
	p1 := predicate.Eq("v", predicate.Int64(5))
	p2 := predicate.Eq("v", predicate.Int64(6))

	s.cache.Put(p1, roaring.BitmapOf(0))
	s.cache.Put(p2, roaring.BitmapOf(1))

	fn := s.Plan(context.Background(), []predicate.Predicate{p1, p2})
	assert.Empty(t, fn(fileA()))
	assert.Empty(t, fn(fileB()))
}

func TestPlanMixedCachedAndUncached(t *testing.T) {
	s := newTestSplitter(t)
	cached := predicate.Eq("v", predicate.Int64(6))
	uncached := predicate.Gt("v", predicate.Int64(9)) // excludes ordinals 0 and 3

	s.cache.Put(cached, roaring.BitmapOf(0, 1, 3))

	fn := s.Plan(context.Background(), []predicate.Predicate{cached, uncached})

	// Cached narrows to {0,1,3}; the uncached statistics pass removes 0
	// and 3, leaving ordinal 1.
	assert.Equal(t, []Split{{Path: "/data/a", Offset: 100, Length: 150}}, fn(fileA()))
	assert.Empty(t, fn(fileB()))
}

func TestPlanUntranslatablePredicateIgnored(t *testing.T) {
	s := newTestSplitter(t)
	unknown := predicate.Eq("missing", predicate.Int64(1))

	fn := s.Plan(context.Background(), []predicate.Predicate{unknown})
	assert.Len(t, fn(fileA()), 2)
	assert.Len(t, fn(fileB()), 2)

	// Untranslatable predicates are excluded from the cache key space
	// for this schema: nothing gets scheduled.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, s.cache.Len())
}

func TestPlanFallbackForUnreferencedFile(t *testing.T) {
	s := newTestSplitter(t)

	fn := s.Plan(context.Background(), []predicate.Predicate{
		predicate.Eq("v", predicate.Int64(5)),
	})

	unknown := FileStatus{Path: "/data/elsewhere", Size: 777}
	assert.Equal(t, []Split{{Path: "/data/elsewhere", Offset: 0, Length: 777}}, fn(unknown))
}

func TestPlanGroupingOrdinalOrder(t *testing.T) {
	s := newTestSplitter(t)

	fn := s.Plan(context.Background(), nil)
	splits := fn(fileB())
	require.Len(t, splits, 2)
	assert.Less(t, splits[0].Offset, splits[1].Offset, "splits follow catalog ordinal order")
}

func TestPlanTTLExpiryCausesRebuild(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	s := newTestSplitter(t, WithCacheTTL(time.Hour), WithClock(func() time.Time { return clock }))

	p1 := predicate.Eq("v", predicate.Int64(5))
	s.cache.Put(p1, roaring.BitmapOf(0, 2, 3))

	clock = clock.Add(2 * time.Hour)

	// Entry expired: the plan must fall back to statistics filtering and
	// still produce the correct result.
	fn := s.Plan(context.Background(), []predicate.Predicate{p1})
	assert.Equal(t, []Split{{Path: "/data/a", Offset: 0, Length: 100}}, fn(fileA()))
}

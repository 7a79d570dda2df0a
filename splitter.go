package splitplan

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hpx7/splitplan/catalog"
	"github.com/hpx7/splitplan/internal/bitcache"
	"github.com/hpx7/splitplan/predicate"
)

// Split is one byte range within a file, designated for a single read
// task.
type Split struct {
	Path   string
	Offset int64
	Length int64
}

// FileStatus describes one file of the dataset as seen on storage.
type FileStatus struct {
	Path string
	Size int64
}

// SplitFunc maps a file to its planned splits. It is computed once per
// query and then applied once per file.
type SplitFunc func(FileStatus) []Split

// Splitter plans read splits for a set of pushdown predicates.
type Splitter interface {
	// Plan computes the splits surviving the given predicates and returns
	// the function to apply per file. Plan never blocks on background
	// cache population.
	Plan(ctx context.Context, preds []predicate.Predicate) SplitFunc
}

// Compile time checks to ensure the splitters satisfy the interface.
var (
	_ Splitter = (*CachingSplitter)(nil)
	_ Splitter = DefaultSplitter{}
)

// DefaultSplitter is the degraded, no-metadata mode: it ignores
// predicates and plans one whole-file split per file.
type DefaultSplitter struct{}

// Plan returns a function producing a single whole-file split.
func (DefaultSplitter) Plan(_ context.Context, _ []predicate.Predicate) SplitFunc {
	return func(f FileStatus) []Split {
		return []Split{{Path: f.Path, Offset: 0, Length: f.Size}}
	}
}

// CachingSplitter plans splits from block-level statistics and amortizes
// predicate evaluation through a bitmap cache.
//
// Filtering is two-tier. Predicates with a cached bitmap are resolved by
// intersecting the cached ordinal sets; the remainder are evaluated
// inline against every block's statistics, and their bitmaps are then
// built in the background so later queries skip the scan. Both tiers only
// ever exclude blocks that provably match no row.
type CachingSplitter struct {
	catalog *catalog.Catalog
	cache   *bitcache.Cache[predicate.Predicate]
	builder *bitcache.Builder[predicate.Predicate]
	logger  *Logger
}

// NewCachingSplitter builds a splitter over the given catalog and starts
// its background build worker. Close must be called to stop the worker.
func NewCachingSplitter(cat *catalog.Catalog, opts ...Option) (*CachingSplitter, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NewLogger(nil)
	}

	cache := bitcache.New[predicate.Predicate](o.cacheTTL, o.clock)

	s := &CachingSplitter{
		catalog: cat,
		cache:   cache,
		logger:  o.logger.WithRoot(cat.Root()),
	}
	s.builder = bitcache.NewBuilder(cache, s.buildBitmap,
		bitcache.WithQueueDepth(o.queueDepth),
		bitcache.WithLimiter(o.limiter),
		bitcache.WithLogger(s.logger.Logger),
	)
	return s, nil
}

// Close stops the background build worker. In-flight or queued builds are
// abandoned; planning results never depend on them.
func (s *CachingSplitter) Close() {
	s.builder.Close()
}

// Plan implements Splitter.
//
// The synchronous path: translate predicates against the schema, partition
// them into cached and uncached through one batch cache lookup, intersect
// the cached bitmaps, statistics-filter the remaining blocks with the
// uncached predicates, and group the survivors into splits by file path.
// Bitmap builds for the uncached predicates are scheduled fire-and-forget
// before returning.
func (s *CachingSplitter) Plan(_ context.Context, preds []predicate.Predicate) SplitFunc {
	schema := s.catalog.Schema()

	// Untranslatable predicates are ignored: they cannot be checked
	// against statistics, so every block passes them.
	type boundPred struct {
		key   predicate.Predicate
		bound predicate.Bound
	}
	translatable := make([]boundPred, 0, len(preds))
	keys := make([]predicate.Predicate, 0, len(preds))
	for _, p := range preds {
		if b, ok := predicate.Translate(p, schema); ok {
			translatable = append(translatable, boundPred{key: p, bound: b})
			keys = append(keys, p)
		}
	}

	// First critical section: partition into cached and uncached. The
	// bitmaps come back as clones, so eviction cannot race the
	// intersection below.
	cached := s.cache.LookupMany(keys)

	var working *roaring.Bitmap
	for _, bm := range cached {
		if working == nil {
			working = bm
		} else {
			working.And(bm)
		}
	}

	uncached := make([]boundPred, 0, len(translatable))
	for _, bp := range translatable {
		if _, ok := cached[bp.key]; !ok {
			uncached = append(uncached, bp)
		}
	}

	blocks := s.catalog.Blocks()
	splits := make(map[string][]Split)
	surviving := 0
	for i := range blocks {
		b := &blocks[i]
		if working != nil && !working.Contains(b.Ordinal) {
			continue
		}
		excluded := false
		for _, bp := range uncached {
			if b.CanExclude(bp.bound) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		p := s.catalog.FilePath(b.Ordinal)
		splits[p] = append(splits[p], Split{Path: p, Offset: b.Offset, Length: b.CompressedSize})
		surviving++
	}

	s.logger.LogPlan(len(cached), len(uncached), surviving, len(blocks))

	if len(uncached) > 0 {
		build := make([]predicate.Predicate, 0, len(uncached))
		for _, bp := range uncached {
			build = append(build, bp.key)
		}
		s.builder.Schedule(build)
	}

	return func(f FileStatus) []Split {
		if s.catalog.References(f.Path) {
			return splits[f.Path]
		}
		s.logger.LogUnreferencedFile(f.Path)
		return []Split{{Path: f.Path, Offset: 0, Length: f.Size}}
	}
}

// buildBitmap scans every block once and accumulates the ordinals the
// predicate cannot exclude. The result covers the full block range; it is
// inserted into the cache only after the scan completes, so a visible
// entry is always complete.
func (s *CachingSplitter) buildBitmap(p predicate.Predicate) (*roaring.Bitmap, bool) {
	bound, ok := predicate.Translate(p, s.catalog.Schema())
	if !ok {
		return nil, false
	}

	bm := roaring.New()
	blocks := s.catalog.Blocks()
	for i := range blocks {
		if !blocks[i].CanExclude(bound) {
			bm.Add(blocks[i].Ordinal)
		}
	}
	return bm, true
}

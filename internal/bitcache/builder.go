package bitcache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/time/rate"
)

// DefaultQueueDepth bounds the number of builds waiting for the worker.
const DefaultQueueDepth = 256

// BuildFunc computes the complete bitmap of matching block ordinals for
// one key. It returns false when no bitmap could be built (for example
// when the key's predicate cannot be translated); returning false caches
// nothing. A BuildFunc may panic; the worker isolates panics per key.
type BuildFunc[K comparable] func(k K) (*roaring.Bitmap, bool)

// Builder populates a Cache asynchronously. All builds run on exactly one
// worker goroutine, so two full-block scans never race, and scheduling is
// deduplicated: a key already cached or already queued is not enqueued
// again. Builds are best-effort; when the queue is full, keys are dropped
// and will be rescheduled by a later query.
type Builder[K comparable] struct {
	cache *Cache[K]
	build BuildFunc[K]

	mu      sync.Mutex
	pending map[K]struct{}

	tasks   chan K
	stop    chan struct{}
	done    chan struct{}
	stopped sync.Once

	limiter *rate.Limiter
	logger  *slog.Logger
}

type builderOptions struct {
	queueDepth int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderOptions)

// WithQueueDepth bounds the build queue. Depth <= 0 selects
// DefaultQueueDepth.
func WithQueueDepth(depth int) BuilderOption {
	return func(o *builderOptions) {
		if depth > 0 {
			o.queueDepth = depth
		}
	}
}

// WithLimiter rate-limits builds. A nil limiter disables limiting.
func WithLimiter(l *rate.Limiter) BuilderOption {
	return func(o *builderOptions) {
		o.limiter = l
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(o *builderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewBuilder creates a builder over cache and starts its worker.
func NewBuilder[K comparable](cache *Cache[K], build BuildFunc[K], opts ...BuilderOption) *Builder[K] {
	o := builderOptions{
		queueDepth: DefaultQueueDepth,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Builder[K]{
		cache:   cache,
		build:   build,
		pending: make(map[K]struct{}),
		tasks:   make(chan K, o.queueDepth),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		limiter: o.limiter,
		logger:  o.logger,
	}
	go b.run()
	return b
}

// Schedule requests background builds for every key that is neither
// cached nor already queued. It never blocks: keys that do not fit in the
// queue are dropped.
func (b *Builder[K]) Schedule(keys []K) {
	for _, k := range keys {
		if b.cache.Contains(k) {
			continue
		}

		b.mu.Lock()
		if _, queued := b.pending[k]; queued {
			b.mu.Unlock()
			continue
		}
		b.pending[k] = struct{}{}
		b.mu.Unlock()

		select {
		case b.tasks <- k:
		default:
			b.unmark(k)
		}
	}
}

// Close stops the worker. Queued builds are abandoned; no caller depends
// on their completion.
func (b *Builder[K]) Close() {
	b.stopped.Do(func() {
		close(b.stop)
		<-b.done
	})
}

func (b *Builder[K]) run() {
	defer close(b.done)
	for {
		select {
		case <-b.stop:
			return
		case k := <-b.tasks:
			if b.limiter != nil {
				if err := b.limiter.Wait(context.Background()); err != nil {
					b.unmark(k)
					continue
				}
			}
			b.buildOne(k)
		}
	}
}

// buildOne scans, optimizes and inserts the bitmap for one key. A failure
// is isolated to that key: one misbehaving predicate must not abort the
// rest of the batch or reach a synchronous caller.
func (b *Builder[K]) buildOne(k K) {
	defer b.unmark(k)
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("bitmap build panicked", "key", k, "panic", r)
		}
	}()

	// A duplicate schedule may have raced an insert; the scan would be
	// wasted work, not a correctness problem, but skip it anyway.
	if b.cache.Contains(k) {
		return
	}

	bm, ok := b.build(k)
	if !ok || bm == nil {
		return
	}
	bm.RunOptimize()
	b.cache.Put(k, bm)
}

func (b *Builder[K]) unmark(k K) {
	b.mu.Lock()
	delete(b.pending, k)
	b.mu.Unlock()
}

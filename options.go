package splitplan

import (
	"time"

	"golang.org/x/time/rate"
)

type options struct {
	cacheTTL   time.Duration
	clock      func() time.Time
	queueDepth int
	limiter    *rate.Limiter
	logger     *Logger
}

// Option configures a caching splitter.
type Option func(*options)

// WithCacheTTL sets the idle window after which an unused bitmap cache
// entry expires. Values <= 0 select the default (4 hours).
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.cacheTTL = ttl
	}
}

// WithClock injects the clock used for cache expiry. Intended for tests;
// a nil clock selects time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithBuildQueueDepth bounds the background build queue. When the queue
// is full, builds are dropped and rescheduled by a later query.
func WithBuildQueueDepth(depth int) Option {
	return func(o *options) {
		o.queueDepth = depth
	}
}

// WithBuildLimiter rate-limits background bitmap builds. Useful when many
// splitter instances share a process and full-block scans must not
// monopolize a core. A nil limiter disables limiting.
func WithBuildLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithLogger sets the logger. A nil logger selects a default text logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

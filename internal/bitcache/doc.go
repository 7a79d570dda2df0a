// Package bitcache implements the predicate bitmap cache: a concurrent
// map from predicate identity to the compressed set of matching block
// ordinals, with per-entry idle expiry and a single-worker background
// builder.
//
// The cache sits on the cold path. Entries are built asynchronously by
// exactly one worker goroutine, so full-block scans are serialized, and
// the synchronous query path never waits for a build. A cached bitmap is
// always complete: it is inserted only after the full block scan, and
// lookups hand out clones so an entry observed by a caller can never be
// mutated or evicted out from under it.
package bitcache

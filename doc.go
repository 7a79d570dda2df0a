// Package splitplan plans byte-range read splits for columnar files using
// pushdown predicates and block-level statistics.
//
// Given an immutable catalog of row-group (block) metadata for one
// logical dataset root and a set of query predicates, the planner returns
// the minimal set of splits that could contain matching rows. Predicate
// evaluation cost is amortized across repeated queries through an
// in-memory bitmap cache keyed by predicate identity: each cached entry
// is the compressed set of block ordinals matching one predicate, built
// asynchronously by a single background worker, with idle-time expiry.
//
// The synchronous planning path never waits on the cache. Cold, stale or
// concurrently rebuilding entries only make filtering less aggressive;
// they never change which rows the planned splits can produce.
//
// Basic usage:
//
//	cat := catalog.New(root, schema, blocks)
//	sp := splitplan.NewCachingSplitter(cat)
//	defer sp.Close()
//
//	splitFn := sp.Plan(ctx, preds)
//	for _, f := range files {
//		for _, s := range splitFn(f) {
//			schedule(s)
//		}
//	}
package splitplan

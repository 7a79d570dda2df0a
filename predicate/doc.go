// Package predicate models pushdown filters and their evaluation against
// block-level column statistics.
//
// A Predicate is a comparable value (usable directly as a map key), so
// bitmap cache entries can be keyed by predicate identity. Translation
// binds a predicate to a schema; only predicates translatable into a
// statistics-level check participate in filtering and caching.
//
// Evaluation is conservative: a block is excluded only when its min/max
// and null-count statistics prove that no row in the block can match.
// Under-exclusion is always safe, over-exclusion never happens.
package predicate

// Package catalog holds the immutable block metadata for one logical
// dataset root.
//
// A Catalog is built once, at splitter construction, from an ordered list
// of blocks (row groups). A block's ordinal index is its position in that
// list; it is the sole identity used inside predicate bitmaps, so the
// list order must be stable for the lifetime of the catalog. Bitmaps
// computed against one catalog instance are never reused by another.
package catalog

package catalog

import (
	"path"

	"github.com/hpx7/splitplan/predicate"
)

// Block describes one row group: a contiguous, independently readable
// byte range of a columnar file, with per-column statistics.
type Block struct {
	// Path of the containing file, relative to the catalog root.
	Path string `json:"path"`
	// Offset is the block's starting byte offset within the file.
	Offset int64 `json:"offset"`
	// CompressedSize is the block's on-disk length in bytes.
	CompressedSize int64 `json:"compressed_size"`
	// RowCount is the number of rows in the block.
	RowCount int64 `json:"row_count"`
	// Columns maps column name to that column's chunk statistics.
	Columns map[string]predicate.Stats `json:"columns,omitempty"`
	// Ordinal is the block's position in the catalog's block list.
	// Assigned by New; the zero value is meaningless before that.
	Ordinal uint32 `json:"-"`
}

// CanExclude reports whether the bound predicate provably matches no row
// of this block. A column with no recorded statistics never excludes.
func (b *Block) CanExclude(bp predicate.Bound) bool {
	st, ok := b.Columns[bp.Column]
	if !ok {
		return b.RowCount == 0
	}
	return bp.CanExclude(st, b.RowCount)
}

// Catalog is the immutable, order-stable block list for one dataset root,
// together with the schema and the referenced file set.
type Catalog struct {
	root       string
	schema     predicate.Schema
	blocks     []Block
	resolved   []string            // per-block root-joined file path
	referenced map[string]struct{} // resolved paths with at least one block
}

// New builds a catalog from the given blocks. The slice order defines the
// block ordinals; callers must supply blocks in on-disk physical order.
// The blocks are copied, and the input slice is not retained.
func New(root string, schema predicate.Schema, blocks []Block) *Catalog {
	c := &Catalog{
		root:       root,
		schema:     schema,
		blocks:     make([]Block, len(blocks)),
		resolved:   make([]string, len(blocks)),
		referenced: make(map[string]struct{}, len(blocks)),
	}
	copy(c.blocks, blocks)
	for i := range c.blocks {
		c.blocks[i].Ordinal = uint32(i)
		p := path.Join(root, c.blocks[i].Path)
		c.resolved[i] = p
		c.referenced[p] = struct{}{}
	}
	return c
}

// Root returns the dataset root path.
func (c *Catalog) Root() string { return c.root }

// Schema returns the schema descriptor.
func (c *Catalog) Schema() predicate.Schema { return c.schema }

// Len returns the number of blocks.
func (c *Catalog) Len() int { return len(c.blocks) }

// Block returns the block with the given ordinal.
func (c *Catalog) Block(ordinal uint32) *Block { return &c.blocks[ordinal] }

// Blocks returns the full ordinal-ordered block list. The returned slice
// is shared and must be treated as read-only.
func (c *Catalog) Blocks() []Block { return c.blocks }

// FilePath returns the root-joined file path of the block with the given
// ordinal.
func (c *Catalog) FilePath(ordinal uint32) string { return c.resolved[ordinal] }

// References reports whether the file path is referenced by at least one
// block, i.e. whether the file is filterable through catalog metadata.
func (c *Catalog) References(filePath string) bool {
	_, ok := c.referenced[filePath]
	return ok
}

package metastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hpx7/splitplan/catalog"
	"github.com/hpx7/splitplan/codec"
	"github.com/hpx7/splitplan/predicate"
)

// MetaPrefix is the store prefix holding snapshot blobs.
const MetaPrefix = "_blockmeta/"

// DefaultLoadConcurrency bounds parallel snapshot fetches during Load.
const DefaultLoadConcurrency = 8

// ErrNoSnapshots is returned by Load when the store holds no snapshots
// for the dataset. Callers typically fall back to whole-file splits.
var ErrNoSnapshots = errors.New("metastore: no block metadata snapshots")

// SchemaMismatchError indicates two snapshots that disagree on a column's
// kind; the metadata cannot describe one coherent dataset.
type SchemaMismatchError struct {
	Column string
	A, B   predicate.Kind
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("metastore: column %q declared as both %s and %s", e.Column, e.A, e.B)
}

// SnapshotName returns the blob name of a file's snapshot. filePath is
// relative to the dataset root.
func SnapshotName(filePath string) string {
	return path.Join(MetaPrefix, filePath) + ".meta"
}

// Publish writes one file's snapshot to the store.
func Publish(ctx context.Context, store Store, fm *catalog.FileMeta, c codec.Codec, comp codec.Compression) error {
	var buf bytes.Buffer
	if err := catalog.EncodeFileMeta(&buf, fm, c, comp); err != nil {
		return err
	}
	return store.Put(ctx, SnapshotName(fm.Path), buf.Bytes())
}

// Load fetches every snapshot under MetaPrefix and assembles the block
// catalog for the dataset root. Snapshots are fetched concurrently but
// combined in lexical name order, so block ordinals are stable for any
// reader of the same metadata.
func Load(ctx context.Context, store Store, root string) (*catalog.Catalog, error) {
	names, err := store.List(ctx, MetaPrefix)
	if err != nil {
		return nil, fmt.Errorf("metastore: list snapshots: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrNoSnapshots
	}
	sort.Strings(names)

	metas := make([]*catalog.FileMeta, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultLoadConcurrency)
	for i, name := range names {
		g.Go(func() error {
			data, err := store.Get(gctx, name)
			if err != nil {
				return fmt.Errorf("metastore: fetch snapshot %s: %w", name, err)
			}
			fm, err := catalog.DecodeFileMeta(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("metastore: snapshot %s: %w", name, err)
			}
			metas[i] = fm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	schema := predicate.Schema{}
	var blocks []catalog.Block
	for _, fm := range metas {
		for col, kind := range fm.Schema {
			if existing, ok := schema[col]; ok && existing != kind {
				return nil, &SchemaMismatchError{Column: col, A: existing, B: kind}
			}
			schema[col] = kind
		}
		for _, bm := range fm.Blocks {
			blocks = append(blocks, catalog.Block{
				Path:           fm.Path,
				Offset:         bm.Offset,
				CompressedSize: bm.CompressedSize,
				RowCount:       bm.RowCount,
				Columns:        bm.Columns,
			})
		}
	}

	return catalog.New(root, schema, blocks), nil
}

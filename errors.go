package splitplan

import "errors"

var (
	// ErrNilCatalog is returned when a caching splitter is constructed
	// without a catalog.
	ErrNilCatalog = errors.New("splitplan: catalog must not be nil")
)

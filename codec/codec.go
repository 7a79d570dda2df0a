// Package codec centralizes payload encoding and compression for catalog
// snapshots.
//
// Snapshot headers are self-describing: they store the codec and
// compression names, and the reader selects the implementations by name.
// Changing a codec is therefore a breaking-change boundary for persisted
// snapshots.
package codec

import "fmt"

// Codec encodes/decodes snapshot payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

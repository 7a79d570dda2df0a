package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression compresses snapshot payloads after encoding.
// Implementations must be safe for concurrent use.
type Compression interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// DefaultCompression is the compression used when none is configured.
var DefaultCompression Compression = Zstd{}

// CompressionByName returns a built-in compression by its stable name.
func CompressionByName(name string) (Compression, bool) {
	switch name {
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	case "none":
		return None{}, true
	default:
		return nil, false
	}
}

// Shared zstd coders. EncodeAll/DecodeAll on a nil-stream coder are
// safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Zstd compresses payloads with Zstandard.
type Zstd struct{}

// Compress compresses src.
func (Zstd) Compress(src []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

// Decompress decompresses src.
func (Zstd) Decompress(src []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(src, nil)
}

// Name returns the unique name of the compression ("zstd").
func (Zstd) Name() string { return "zstd" }

// LZ4 compresses payloads with the LZ4 frame format.
type LZ4 struct{}

// Compress compresses src.
func (LZ4) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decompresses src.
func (LZ4) Decompress(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}

// Name returns the unique name of the compression ("lz4").
func (LZ4) Name() string { return "lz4" }

// None stores payloads uncompressed.
type None struct{}

// Compress returns src unchanged.
func (None) Compress(src []byte) ([]byte, error) { return src, nil }

// Decompress returns src unchanged.
func (None) Decompress(src []byte) ([]byte, error) { return src, nil }

// Name returns the unique name of the compression ("none").
func (None) Name() string { return "none" }

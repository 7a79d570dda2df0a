package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hpx7/splitplan/codec"
	"github.com/hpx7/splitplan/internal/hash"
	"github.com/hpx7/splitplan/predicate"
)

const (
	snapshotMagic   = 0x424b4d31 // "BKM1"
	snapshotVersion = 1
)

var (
	// ErrInvalidMagic is returned when a snapshot does not start with the
	// expected magic bytes.
	ErrInvalidMagic = errors.New("catalog: invalid snapshot magic")
	// ErrChecksumMismatch is returned when a snapshot payload fails
	// checksum verification.
	ErrChecksumMismatch = errors.New("catalog: snapshot checksum mismatch")
)

// UnsupportedVersionError is returned when a snapshot was written by an
// incompatible format version.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("catalog: unsupported snapshot version %d", e.Version)
}

// BlockMeta is the persisted form of one block within a file snapshot.
// File path and ordinal are assigned at catalog assembly time.
type BlockMeta struct {
	Offset         int64                      `json:"offset"`
	CompressedSize int64                      `json:"compressed_size"`
	RowCount       int64                      `json:"row_count"`
	Columns        map[string]predicate.Stats `json:"columns,omitempty"`
}

// FileMeta is the block metadata snapshot of a single columnar file,
// as published by the writer that produced the file.
type FileMeta struct {
	// Path of the file, relative to the dataset root.
	Path string `json:"path"`
	// Schema of the file's columns.
	Schema predicate.Schema `json:"schema"`
	// Blocks in on-disk physical order.
	Blocks []BlockMeta `json:"blocks"`
}

// EncodeFileMeta writes the snapshot in its binary envelope.
//
// Format (all integers little-endian):
//
//	Magic (4 bytes)
//	Version (4 bytes)
//	CodecName (2-byte length + bytes)
//	CompressionName (2-byte length + bytes)
//	Checksum (4 bytes) - CRC32C of the compressed payload
//	PayloadLength (4 bytes)
//	Payload - codec-encoded FileMeta, compressed
func EncodeFileMeta(w io.Writer, fm *FileMeta, c codec.Codec, comp codec.Compression) error {
	if c == nil {
		c = codec.Default
	}
	if comp == nil {
		comp = codec.DefaultCompression
	}

	encoded, err := c.Marshal(fm)
	if err != nil {
		return fmt.Errorf("catalog: encode snapshot: %w", err)
	}
	payload, err := comp.Compress(encoded)
	if err != nil {
		return fmt.Errorf("catalog: compress snapshot: %w", err)
	}

	var hdr []byte
	hdr = binary.LittleEndian.AppendUint32(hdr, snapshotMagic)
	hdr = binary.LittleEndian.AppendUint32(hdr, snapshotVersion)
	hdr = appendString(hdr, c.Name())
	hdr = appendString(hdr, comp.Name())
	hdr = binary.LittleEndian.AppendUint32(hdr, hash.CRC32C(payload))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(payload)))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// DecodeFileMeta reads a snapshot written by EncodeFileMeta, selecting
// the codec and compression named in the header.
func DecodeFileMeta(r io.Reader) (*FileMeta, error) {
	br := &byteReader{r: r}

	if magic := br.readUint32(); br.err == nil && magic != snapshotMagic {
		return nil, ErrInvalidMagic
	}
	if version := br.readUint32(); br.err == nil && version != snapshotVersion {
		return nil, &UnsupportedVersionError{Version: version}
	}

	codecName := br.readString()
	compName := br.readString()
	checksum := br.readUint32()
	length := br.readUint32()
	if br.err != nil {
		return nil, fmt.Errorf("catalog: read snapshot header: %w", br.err)
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("catalog: unknown snapshot codec %q", codecName)
	}
	comp, ok := codec.CompressionByName(compName)
	if !ok {
		return nil, fmt.Errorf("catalog: unknown snapshot compression %q", compName)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("catalog: read snapshot payload: %w", err)
	}
	if hash.CRC32C(payload) != checksum {
		return nil, ErrChecksumMismatch
	}

	decoded, err := comp.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("catalog: decompress snapshot: %w", err)
	}

	fm := &FileMeta{}
	if err := c.Unmarshal(decoded, fm); err != nil {
		return nil, fmt.Errorf("catalog: decode snapshot: %w", err)
	}
	return fm, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}

type byteReader struct {
	r   io.Reader
	err error
}

func (br *byteReader) read(n int) []byte {
	if br.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		br.err = err
		return nil
	}
	return buf
}

func (br *byteReader) readUint32() uint32 {
	b := br.read(4)
	if br.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (br *byteReader) readString() string {
	b := br.read(2)
	if br.err != nil {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(b))
	s := br.read(n)
	if br.err != nil {
		return ""
	}
	return string(s)
}

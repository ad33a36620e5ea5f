package metadatalog

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression codec ids, the low 3 bits of a record batch's attributes
// field (SPEC_FULL §3).
const (
	codecNone   int16 = 0
	codecGzip   int16 = 1
	codecSnappy int16 = 2
	codecLZ4    int16 = 3
	codecZstd   int16 = 4
)

// decompress returns the decompressed record section of a batch whose
// attributes carry the given codec. Uncompressed batches (the only kind
// the reference KRaft log ever writes) pass through unchanged.
func decompress(codec int16, payload []byte) ([]byte, error) {
	switch codec {
	case codecNone:
		return payload, nil
	case codecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedMetadata, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedMetadata, err)
		}
		return out, nil
	case codecLZ4:
		zr := lz4.NewReader(bytes.NewReader(payload))
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrMalformedMetadata, err)
		}
		return out, nil
	case codecZstd:
		zr, err := zstd.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrMalformedMetadata, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrMalformedMetadata, err)
		}
		return out, nil
	case codecSnappy:
		return nil, fmt.Errorf("%w: snappy-compressed record batches are not supported", ErrMalformedMetadata)
	default:
		return nil, fmt.Errorf("%w: unknown compression codec %d", ErrMalformedMetadata, codec)
	}
}

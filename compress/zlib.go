package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCodec provides RFC 1950 zlib framing for serialized documents.
//
// This is the codec to use for interoperable compressed binary LLSD: the
// original asset transport wraps binary documents in exactly this framing,
// so streams produced here are readable by an independent peer and vice
// versa.
type ZlibCodec struct{}

var _ Codec = (*ZlibCodec)(nil)

// NewZlibCodec creates a new zlib codec with the default compression level.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

// Compress compresses the input data with zlib framing.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib-framed payload.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}

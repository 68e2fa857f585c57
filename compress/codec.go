package compress

import "fmt"

// Compressor compresses a complete serialized LLSD document.
//
// Payloads are whole documents produced by the binary formatter, typically
// a few hundred bytes to a few hundred kilobytes. Implementations may
// reuse internal buffers, but the returned slice is newly allocated and
// owned by the caller unless documented otherwise.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	// The input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload previously produced by the matching
// Compressor. Implementations validate the compressed framing and return
// an error for corrupted or mismatched input.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	// The input slice is not modified.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Type identifies a compression algorithm.
type Type uint8

const (
	// TypeNone bypasses compression.
	TypeNone Type = iota
	// TypeZlib is the wire-compatible framing the original asset transport
	// uses for compressed binary LLSD.
	TypeZlib
	// TypeZstd favors compression ratio.
	TypeZstd
	// TypeS2 favors speed.
	TypeS2
	// TypeLZ4 favors speed with block framing.
	TypeLZ4
)

// String returns the algorithm name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeZlib:
		return "zlib"
	case TypeZstd:
		return "zstd"
	case TypeS2:
		return "s2"
	case TypeLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// NewCodec returns the Codec for the given algorithm type.
func NewCodec(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNoOpCodec(), nil
	case TypeZlib:
		return NewZlibCodec(), nil
	case TypeZstd:
		return NewZstdCodec(), nil
	case TypeS2:
		return NewS2Codec(), nil
	case TypeLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("unknown compression type %d", t)
	}
}

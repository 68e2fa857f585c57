package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec provides LZ4 block compression. Fast with a slightly better
// ratio than S2 on text-heavy documents.
//
// Blocks are prefixed with one framing byte: 1 for an LZ4 block, 0 for a
// stored (incompressible) payload. LZ4 block compression refuses inputs it
// cannot shrink, which tiny documents regularly are.
type LZ4Codec struct{}

const (
	lz4FrameStored     = 0x00
	lz4FrameCompressed = 0x01
)

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input data using LZ4 block compression.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dstSize := lz4.CompressBlockBound(len(data)) + 1
	dst := make([]byte, dstSize)
	dst[0] = lz4FrameCompressed

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible input; store it raw behind the framing byte.
		dst[0] = lz4FrameStored
		n = copy(dst[1:], data)
	}

	return dst[:n+1], nil
}

// Decompress decompresses an LZ4 block.
//
// LZ4 blocks do not carry the decompressed size, so the method starts
// with a buffer 4x the compressed size and doubles it on
// ErrInvalidSourceShortBuffer, up to a 128MB safety limit.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case lz4FrameStored:
		out := make([]byte, len(data)-1)
		copy(out, data[1:])

		return out, nil
	case lz4FrameCompressed:
		data = data[1:]
	default:
		return nil, errors.New("lz4: unknown framing byte")
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024 // 128MB safety limit

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2 // Double buffer size and retry
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

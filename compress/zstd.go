package compress

// ZstdCodec provides Zstandard compression for serialized documents.
//
// Best compression ratio of the available codecs; suited to cold storage
// and archival of large documents where decompression is infrequent.
//
// The implementation is selected at build time: the cgo build uses
// valyala/gozstd (native libzstd), and the pure-Go build falls back to
// klauspost/compress/zstd.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

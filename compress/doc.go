// Package compress provides pluggable compression codecs for serialized
// LLSD documents.
//
// The zlib codec matches the framing the original asset transport uses
// for compressed binary LLSD and is the interoperable choice. Zstd, S2
// and LZ4 trade wire compatibility for better ratio or speed and suit
// internal storage.
//
// # Basic Usage
//
//	codec := compress.NewZlibCodec()
//	compressed, err := codec.Compress(document)
//	if err != nil {
//		return err
//	}
//	original, err := codec.Decompress(compressed)
//
// All codecs are safe for concurrent use.
package compress

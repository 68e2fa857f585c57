// Package endian provides byte order utilities for the llsd binary codec.
//
// It combines the ByteOrder and AppendByteOrder interfaces from Go's
// standard encoding/binary package into a single EndianEngine interface,
// so encoders can both write into fixed offsets and append to growing
// buffers through one value.
//
// The llsd binary wire format carries every multi-byte integer in
// big-endian (network) order, so GetBigEndianEngine is the engine the
// codecs use. The little-endian engine exists for tooling that needs to
// inspect host-order scratch data.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.BigEndian and binary.LittleEndian both satisfy the interface, so
// engines are immutable, stateless and safe for concurrent use.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine used by the wire format.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

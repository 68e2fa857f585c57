package serialize

import (
	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/internal/pool"
)

// Digest returns a 64-bit content hash of v.
//
// The hash is computed over the binary encoding, which is canonical: map
// entries are emitted in lexicographic key order, so two structurally
// equal trees always digest to the same value regardless of construction
// order. Suitable for deduplication and change detection, not for
// cryptographic purposes.
func Digest(v llsd.Value) uint64 {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	f := NewBinaryFormatter()
	_, _ = f.Format(v, buf)

	return xxhash.Sum64(buf.Bytes())
}

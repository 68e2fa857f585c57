package serialize

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/compress"
	"github.com/arloliu/llsd/errs"
	"github.com/arloliu/llsd/internal/pool"
)

// ToCompressedBinary encodes v in the binary encoding, compresses the
// result with codec, and writes the compressed bytes to w. It returns the
// node count of the encoded tree.
func ToCompressedBinary(v llsd.Value, w io.Writer, codec compress.Codec) (int64, error) {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	f := NewBinaryFormatter()
	nodes, err := f.Format(v, buf)
	if err != nil {
		return 0, err
	}

	data, err := codec.Compress(buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("compress binary document: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("write compressed document: %w", err)
	}

	return nodes, nil
}

// FromCompressedBinary decompresses r with codec and parses the result as
// a binary-encoded value.
//
// maxBytes bounds the size of the decompressed document, not the
// compressed input: a stream that inflates past the budget fails with
// ErrBudgetExceeded before any parsing happens. The inflated payload is
// materialized before that check, so callers handling untrusted input
// should also bound the compressed bytes they hand in.
func FromCompressedBinary(r io.Reader, maxBytes int64, codec compress.Codec) (llsd.Value, int64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return llsd.Undef(), ParseFailure, fmt.Errorf("read compressed document: %w", err)
	}

	data, err := codec.Decompress(raw)
	if err != nil {
		return llsd.Undef(), ParseFailure, fmt.Errorf("decompress document: %w", err)
	}
	if maxBytes != SizeUnlimited && int64(len(data)) > maxBytes {
		return llsd.Undef(), ParseFailure, fmt.Errorf("%w: decompressed size %d exceeds budget %d",
			errs.ErrBudgetExceeded, len(data), maxBytes)
	}

	return NewBinaryParser().Parse(bytes.NewReader(data), maxBytes)
}

package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferWrites(t *testing.T) {
	bb := NewByteBuffer(16)

	require.NoError(t, bb.WriteByte('a'))
	n, err := bb.WriteString("bc")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = bb.Write([]byte{'d', 'e'})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte("abcde"), bb.Bytes())

	var sink bytes.Buffer
	written, err := bb.WriteTo(&sink)
	require.NoError(t, err)
	require.Equal(t, int64(5), written)
	require.Equal(t, "abcde", sink.String())
}

func TestByteBufferReset(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("content")

	capBefore := bb.Cap()
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.WriteString("12345678")

	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, []byte("12345678"), bb.Bytes())

	// Growing within existing capacity is a no-op.
	capBefore := bb.Cap()
	bb.Grow(1)
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBufferPoolReuse(t *testing.T) {
	p := NewByteBufferPool(32, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.WriteString("scratch")
	p.Put(bb)

	// Buffers come back empty.
	bb = p.Get()
	require.Equal(t, 0, bb.Len())
	p.Put(bb)

	// Oversized buffers are discarded rather than pooled.
	big := NewByteBuffer(2048)
	big.B = big.B[:0]
	p.Put(big)

	p.Put(nil) // tolerated
}

func TestDocBufferPool(t *testing.T) {
	bb := GetDocBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	_, _ = bb.WriteString("doc")
	PutDocBuffer(bb)
}

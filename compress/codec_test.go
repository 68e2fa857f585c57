package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var sampleDocs = [][]byte{
	nil,
	[]byte{'!'},
	[]byte("{\x00\x00\x00\x01k\x00\x00\x00\x03amyi\x00\x00\x00\x17}"),
	bytes.Repeat([]byte("s\x00\x00\x00\x05hello"), 500),
}

func TestCodecRoundTrip(t *testing.T) {
	for _, ct := range []Type{TypeNone, TypeZlib, TypeZstd, TypeS2, TypeLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := NewCodec(ct)
			require.NoError(t, err)

			for _, doc := range sampleDocs {
				packed, err := codec.Compress(doc)
				require.NoError(t, err)

				restored, err := codec.Decompress(packed)
				require.NoError(t, err)
				require.True(t, bytes.Equal(doc, restored), "doc % x", doc)
			}
		})
	}
}

func TestCodecCompressionRatio(t *testing.T) {
	doc := bytes.Repeat([]byte("k\x00\x00\x00\x08repeated"), 1000)

	for _, ct := range []Type{TypeZlib, TypeZstd, TypeS2, TypeLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := NewCodec(ct)
			require.NoError(t, err)

			packed, err := codec.Compress(doc)
			require.NoError(t, err)
			require.Less(t, len(packed), len(doc))
		})
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	for _, ct := range []Type{TypeZlib, TypeZstd, TypeLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := NewCodec(ct)
			require.NoError(t, err)

			_, err = codec.Decompress([]byte("definitely not a compressed stream"))
			require.Error(t, err)
		})
	}
}

func TestNewCodecUnknownType(t *testing.T) {
	_, err := NewCodec(Type(200))
	require.Error(t, err)
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "none", TypeNone.String())
	require.Equal(t, "zlib", TypeZlib.String())
	require.Equal(t, "zstd", TypeZstd.String())
	require.Equal(t, "s2", TypeS2.String())
	require.Equal(t, "lz4", TypeLZ4.String())
	require.Equal(t, "unknown", Type(200).String())
}

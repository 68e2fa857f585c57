package serialize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/compress"
	"github.com/arloliu/llsd/errs"
)

func TestCompressedBinaryRoundTrip(t *testing.T) {
	v := buildDeepTree(10, 3)

	for _, ct := range []compress.Type{
		compress.TypeNone,
		compress.TypeZlib,
		compress.TypeZstd,
		compress.TypeS2,
		compress.TypeLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := compress.NewCodec(ct)
			require.NoError(t, err)

			var buf bytes.Buffer
			nodes, err := ToCompressedBinary(v, &buf, codec)
			require.NoError(t, err)

			parsed, parsedNodes, err := FromCompressedBinary(&buf, SizeUnlimited, codec)
			require.NoError(t, err)
			require.Equal(t, nodes, parsedNodes)
			require.True(t, v.Equal(parsed))
		})
	}
}

func TestCompressedBinaryShrinks(t *testing.T) {
	// A repetitive tree must come out smaller than its plain encoding.
	arr := llsd.EmptyArray()
	for i := 0; i < 200; i++ {
		arr.Append(llsd.String("the same string over and over"))
	}

	var plain bytes.Buffer
	_, err := ToBinary(arr, &plain)
	require.NoError(t, err)

	codec, err := compress.NewCodec(compress.TypeZlib)
	require.NoError(t, err)

	var packed bytes.Buffer
	_, err = ToCompressedBinary(arr, &packed, codec)
	require.NoError(t, err)
	require.Less(t, packed.Len(), plain.Len())
}

func TestCompressedBinaryBudget(t *testing.T) {
	v := buildDeepTree(10, 2)

	codec, err := compress.NewCodec(compress.TypeZlib)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = ToCompressedBinary(v, &buf, codec)
	require.NoError(t, err)

	// The budget bounds the decompressed document, so a tiny compressed
	// payload cannot expand past it.
	_, nodes, err := FromCompressedBinary(&buf, 10, codec)
	require.ErrorIs(t, err, errs.ErrBudgetExceeded)
	require.Equal(t, ParseFailure, nodes)
}

func TestCompressedBinaryGarbage(t *testing.T) {
	codec, err := compress.NewCodec(compress.TypeZlib)
	require.NoError(t, err)

	_, nodes, err := FromCompressedBinary(bytes.NewReader([]byte("not zlib")), SizeUnlimited, codec)
	require.Error(t, err)
	require.Equal(t, ParseFailure, nodes)
}

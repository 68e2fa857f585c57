package serialize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFacadeRoundTrips(t *testing.T) {
	v := buildDeepTree(4, 2)

	t.Run("binary", func(t *testing.T) {
		var buf bytes.Buffer
		nodes, err := ToBinary(v, &buf)
		require.NoError(t, err)

		parsed, parsedNodes, err := FromBinary(&buf, SizeUnlimited)
		require.NoError(t, err)
		require.Equal(t, nodes, parsedNodes)
		require.True(t, v.Equal(parsed))
	})

	t.Run("notation", func(t *testing.T) {
		var buf bytes.Buffer
		nodes, err := ToNotation(v, &buf)
		require.NoError(t, err)

		parsed, parsedNodes, err := FromNotation(&buf, SizeUnlimited)
		require.NoError(t, err)
		require.Equal(t, nodes, parsedNodes)
		require.True(t, v.Equal(parsed))
	})

	t.Run("xml", func(t *testing.T) {
		var buf bytes.Buffer
		nodes, err := ToXML(v, &buf)
		require.NoError(t, err)

		parsed, parsedNodes, err := FromXML(&buf, SizeUnlimited)
		require.NoError(t, err)
		require.Equal(t, nodes, parsedNodes)
		require.True(t, v.Equal(parsed))
	})
}

// TestCrossFormatEquivalence feeds the same tree through every encoding
// and checks the decoded trees and node counts all agree.
func TestCrossFormatEquivalence(t *testing.T) {
	v := buildDeepTree(10, 3)

	var binBuf, notBuf, xmlBuf bytes.Buffer
	binNodes, err := ToBinary(v, &binBuf)
	require.NoError(t, err)
	notNodes, err := ToNotation(v, &notBuf)
	require.NoError(t, err)
	xmlNodes, err := ToXML(v, &xmlBuf)
	require.NoError(t, err)

	require.Equal(t, binNodes, notNodes)
	require.Equal(t, binNodes, xmlNodes)

	fromBin, _, err := FromBinary(&binBuf, SizeUnlimited)
	require.NoError(t, err)
	fromNot, _, err := FromNotation(&notBuf, SizeUnlimited)
	require.NoError(t, err)
	fromXML, _, err := FromXML(&xmlBuf, SizeUnlimited)
	require.NoError(t, err)

	require.True(t, fromBin.Equal(fromNot))
	require.True(t, fromBin.Equal(fromXML))
	require.True(t, v.Equal(fromBin))
}

// TestTranscode re-encodes a parsed tree into a different format, the
// common relay path between peers speaking different encodings.
func TestTranscode(t *testing.T) {
	src := "{'amy':i23, 'cam':r1.25, 'raw':b64\"aGk=\"}"

	v, _, err := FromNotation(bytes.NewReader([]byte(src)), SizeUnlimited)
	require.NoError(t, err)

	var bin bytes.Buffer
	_, err = ToBinary(v, &bin)
	require.NoError(t, err)

	back, _, err := FromBinary(&bin, SizeUnlimited)
	require.NoError(t, err)
	require.True(t, v.Equal(back))
	require.Equal(t, int32(23), back.Get("amy").AsInteger())
	require.Equal(t, 1.25, back.Get("cam").AsReal())
	require.Equal(t, []byte("hi"), back.Get("raw").AsBinary())
}

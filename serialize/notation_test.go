package serialize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/errs"
)

// parseNotation decodes text with an unlimited budget.
func parseNotation(t *testing.T, text string) (llsd.Value, int64, error) {
	t.Helper()

	return NewNotationParser().Parse(strings.NewReader(text), SizeUnlimited)
}

func TestNotationParseScalars(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  llsd.Value
		nodes int64
	}{
		{"undefined", "!", llsd.Undef(), 1},
		{"true digit", "1", llsd.Boolean(true), 1},
		{"false digit", "0", llsd.Boolean(false), 1},
		{"true word", "true", llsd.Boolean(true), 1},
		{"true upper", "TRUE", llsd.Boolean(true), 1},
		{"true letter", "t", llsd.Boolean(true), 1},
		{"false word", "false", llsd.Boolean(false), 1},
		{"false letter", "F", llsd.Boolean(false), 1},
		{"integer", "i42", llsd.Integer(42), 1},
		{"negative integer", "i-1234", llsd.Integer(-1234), 1},
		{"real", "r3.25", llsd.Real(3.25), 1},
		{"real exponent", "r2.0e3", llsd.Real(2000), 1},
		{"string single quoted", "'ha ha'", llsd.String("ha ha"), 1},
		{"string double quoted", `"ha ha"`, llsd.String("ha ha"), 1},
		{"string sized", `s(8)"whatever"`, llsd.String("whatever"), 1},
		{"string empty", "''", llsd.String(""), 1},
		{"uri", `l"http://www.example.org/"`, llsd.URI("http://www.example.org/"), 1},
		{"date", `d"2008-01-01T20:10:31Z"`, llsd.FromDate(llsd.Date(1199218231)), 1},
		{"binary base64", `b64"aGk="`, llsd.BinaryData([]byte("hi")), 1},
		{"binary hex", `b16"6869"`, llsd.BinaryData([]byte("hi")), 1},
		{"binary sized", `b(5)"hello"`, llsd.BinaryData([]byte("hello")), 1},
		{"leading whitespace", "  \n\ti7", llsd.Integer(7), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, nodes, err := parseNotation(t, tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.nodes, nodes)
			require.True(t, tc.want.Equal(v), "got %v", v)
		})
	}
}

func TestNotationParseUUID(t *testing.T) {
	v, nodes, err := parseNotation(t, "u6bad258e-06f0-4a87-a659-493117c9c162")
	require.NoError(t, err)
	require.Equal(t, int64(1), nodes)
	require.Equal(t, "6bad258e-06f0-4a87-a659-493117c9c162", v.AsUUID().String())
}

func TestNotationParseContainers(t *testing.T) {
	t.Run("empty array", func(t *testing.T) {
		v, nodes, err := parseNotation(t, "[]")
		require.NoError(t, err)
		require.Equal(t, int64(1), nodes)
		require.Equal(t, 0, v.Size())
	})

	t.Run("array", func(t *testing.T) {
		v, nodes, err := parseNotation(t, "[i1, i2, 'three']")
		require.NoError(t, err)
		require.Equal(t, int64(4), nodes)
		require.Equal(t, int32(2), v.At(1).AsInteger())
		require.Equal(t, "three", v.At(2).AsString())
	})

	t.Run("empty map", func(t *testing.T) {
		v, nodes, err := parseNotation(t, "{}")
		require.NoError(t, err)
		require.Equal(t, int64(1), nodes)
		require.Equal(t, 0, v.Size())
	})

	t.Run("map", func(t *testing.T) {
		v, nodes, err := parseNotation(t, "{'amy':i23, 'cam':r1.23}")
		require.NoError(t, err)
		require.Equal(t, int64(3), nodes)
		require.Equal(t, int32(23), v.Get("amy").AsInteger())
		require.Equal(t, 1.23, v.Get("cam").AsReal())
	})

	t.Run("nested", func(t *testing.T) {
		v, nodes, err := parseNotation(t, "{'list':[i1,{'deep':!}]}")
		require.NoError(t, err)
		// map + array + integer + inner map + undef
		require.Equal(t, int64(5), nodes)
		require.True(t, v.Get("list").At(1).Get("deep").IsUndefined())
	})

	t.Run("sized map key", func(t *testing.T) {
		v, _, err := parseNotation(t, `{s(3)"amy":i23}`)
		require.NoError(t, err)
		require.Equal(t, int32(23), v.Get("amy").AsInteger())
	})
}

func TestNotationStringEscapes(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`'don\'t'`, "don't"},
		{`'back\\slash'`, `back\slash`},
		{`'tab\there'`, "tab\there"},
		{`'new\nline'`, "new\nline"},
		{`'hex\x41'`, "hexA"},
		{`"double \"quote\""`, `double "quote"`},
	}
	for _, tc := range tests {
		v, _, err := parseNotation(t, tc.text)
		require.NoError(t, err, "input %s", tc.text)
		require.Equal(t, tc.want, v.AsString())
	}
}

func TestNotationSizedLengthMismatch(t *testing.T) {
	// The declared byte count must land exactly on the closing quote.
	_, nodes, err := parseNotation(t, `s(7)"whatever"`)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
	require.Equal(t, ParseFailure, nodes)

	_, _, err = parseNotation(t, `s(9)"whatever"`)
	require.Error(t, err)
}

func TestNotationParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty input", "", errs.ErrTruncated},
		{"unknown tag", "x", errs.ErrUnknownTag},
		{"bare digits", "421", errs.ErrUnknownTag},
		{"partial word bool", "TRx", errs.ErrInvalidLiteral},
		{"truncated word bool", "TR", errs.ErrTruncated},
		{"integer overflow", "i4294967296", errs.ErrInvalidLiteral},
		{"integer underflow", "i-4294967296", errs.ErrInvalidLiteral},
		{"empty integer", "i", errs.ErrInvalidLiteral},
		{"bad real", "r1.2.3", errs.ErrInvalidLiteral},
		{"bad uuid", "unot-a-uuid-at-all-not-a-uuid-at-all-", errs.ErrInvalidLiteral},
		{"bad date", `d"yesterday-ish"`, errs.ErrInvalidLiteral},
		{"unquoted uri", "lhttp://x/", errs.ErrInvalidLiteral},
		{"bad binary form", "b32\"x\"", errs.ErrInvalidLiteral},
		{"bad base64", `b64"!!!"`, errs.ErrInvalidLiteral},
		{"unterminated string", "'ha ha", errs.ErrTruncated},
		{"array bad separator", "[i1;i2]", errs.ErrMalformedContainer},
		{"map missing colon", "{'a' i1}", errs.ErrInvalidLiteral},
		{"map bad separator", "{'a':i1;'b':i2}", errs.ErrMalformedContainer},
		{"unterminated array", "[i1,", errs.ErrTruncated},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, nodes, err := parseNotation(t, tc.text)
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, ParseFailure, nodes)
			require.True(t, v.IsUndefined())
		})
	}
}

func TestNotationBudget(t *testing.T) {
	text := `s(8)"whatever"`

	v, nodes, err := NewNotationParser().Parse(strings.NewReader(text), int64(len(text)))
	require.NoError(t, err)
	require.Equal(t, int64(1), nodes)
	require.Equal(t, "whatever", v.AsString())

	// The sized form fails on the declared length before reading payload.
	_, nodes, err = NewNotationParser().Parse(strings.NewReader(text), 6)
	require.ErrorIs(t, err, errs.ErrBudgetExceeded)
	require.Equal(t, ParseFailure, nodes)
}

func TestNotationFormatScalars(t *testing.T) {
	tests := []struct {
		name  string
		value llsd.Value
		want  string
	}{
		{"undefined", llsd.Undef(), "!"},
		{"true", llsd.Boolean(true), "1"},
		{"false", llsd.Boolean(false), "0"},
		{"integer", llsd.Integer(42), "i42"},
		{"real", llsd.Real(3.25), "r3.25"},
		{"string", llsd.String("ha ha"), "'ha ha'"},
		{"string escape", llsd.String("don't"), `'don\'t'`},
		{"uri", llsd.URI("http://www.example.org/"), `l"http://www.example.org/"`},
		{"date", llsd.FromDate(llsd.Date(1199218231)), `d"2008-01-01T20:10:31Z"`},
		{"binary", llsd.BinaryData([]byte("hi")), `b64"aGk="`},
		{"uuid", llsd.FromUUID(llsd.NullUUID), "u00000000-0000-0000-0000-000000000000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewNotationFormatter()
			require.NoError(t, err)

			var buf bytes.Buffer
			nodes, err := f.Format(tc.value, &buf)
			require.NoError(t, err)
			require.Equal(t, int64(1), nodes)
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestNotationFormatContainers(t *testing.T) {
	m := llsd.EmptyMap()
	m.Set("cam", llsd.Real(1.23))
	m.Set("amy", llsd.Integer(23))

	f, err := NewNotationFormatter()
	require.NoError(t, err)

	var buf bytes.Buffer
	nodes, err := f.Format(m, &buf)
	require.NoError(t, err)
	require.Equal(t, int64(3), nodes)
	// Keys render in lexicographic order.
	require.Equal(t, "{'amy':i23,'cam':r1.23}", buf.String())

	arr := llsd.EmptyArray()
	arr.Append(llsd.Integer(1))
	arr.Append(llsd.Undef())

	buf.Reset()
	nodes, err = f.Format(arr, &buf)
	require.NoError(t, err)
	require.Equal(t, int64(3), nodes)
	require.Equal(t, "[i1,!]", buf.String())
}

func TestNotationFormatterOptions(t *testing.T) {
	t.Run("bool alpha", func(t *testing.T) {
		f, err := NewNotationFormatter(WithBoolAlpha(true))
		require.NoError(t, err)

		var buf bytes.Buffer
		_, err = f.Format(llsd.Boolean(true), &buf)
		require.NoError(t, err)
		require.Equal(t, "true", buf.String())
	})

	t.Run("real format", func(t *testing.T) {
		f, err := NewNotationFormatter(WithRealFormat("%.2f"))
		require.NoError(t, err)

		var buf bytes.Buffer
		_, err = f.Format(llsd.Real(1.23456), &buf)
		require.NoError(t, err)
		require.Equal(t, "r1.23", buf.String())
	})

	t.Run("invalid real format", func(t *testing.T) {
		_, err := NewNotationFormatter(WithRealFormat("no verb"))
		require.Error(t, err)
	})

	t.Run("setters", func(t *testing.T) {
		f, err := NewNotationFormatter()
		require.NoError(t, err)
		f.BoolAlpha(true)
		f.RealFormat("%.1f")

		var buf bytes.Buffer
		_, err = f.Format(llsd.Boolean(false), &buf)
		require.NoError(t, err)
		require.Equal(t, "false", buf.String())
	})
}

func TestNotationRoundTrip(t *testing.T) {
	v := buildDeepTree(10, 3)

	f, err := NewNotationFormatter()
	require.NoError(t, err)

	var buf bytes.Buffer
	nodes, err := f.Format(v, &buf)
	require.NoError(t, err)

	parsed, parsedNodes, err := NewNotationParser().Parse(&buf, SizeUnlimited)
	require.NoError(t, err)
	require.Equal(t, nodes, parsedNodes)
	require.True(t, v.Equal(parsed))
}

func TestNotationFullRangeRoundTrip(t *testing.T) {
	f, err := NewNotationFormatter()
	require.NoError(t, err)
	p := NewNotationParser()

	var buf bytes.Buffer
	for _, block := range textBlocks() {
		buf.Reset()
		p.Reset()

		_, err := f.Format(llsd.String(block), &buf)
		require.NoError(t, err)

		v, nodes, err := p.Parse(&buf, SizeUnlimited)
		require.NoError(t, err, "block starting %U", []rune(block)[0])
		require.Equal(t, int64(1), nodes)
		require.Equal(t, block, v.AsString())
	}
}

func TestNotationUnicodeRoundTrip(t *testing.T) {
	v := llsd.String("日本語 кириллица ελληνικά")

	f, err := NewNotationFormatter()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = f.Format(v, &buf)
	require.NoError(t, err)

	parsed, _, err := NewNotationParser().Parse(&buf, SizeUnlimited)
	require.NoError(t, err)
	require.Equal(t, v.AsString(), parsed.AsString())
}

func TestNotationParserReset(t *testing.T) {
	p := NewNotationParser()

	v, _, err := p.Parse(strings.NewReader("i1"), SizeUnlimited)
	require.NoError(t, err)
	require.Equal(t, int32(1), v.AsInteger())

	p.Reset()

	v, _, err = p.Parse(strings.NewReader("'two'"), SizeUnlimited)
	require.NoError(t, err)
	require.Equal(t, "two", v.AsString())
}

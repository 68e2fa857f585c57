package serialize

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/errs"
	"github.com/arloliu/llsd/internal/options"
	"github.com/arloliu/llsd/internal/pool"
)

// Notation wire grammar: compact ASCII with a literal prefix per kind and
// no mandatory whitespace between tokens.
//
//	!                     undefined
//	1 0 t f T F true …    boolean (exact listed spellings only)
//	i<digits>             integer
//	r<float>              real
//	u<hyphenated hex>     uuid
//	d"<iso8601>"          date
//	l"<text>"             uri
//	'…' "…" s(N)"…"       string (quoted, or explicit byte length)
//	b64"…" b16"…" b(N)"…" binary (base64, hex, or raw with length)
//	[a,b,c]  {'k':v,…}    array and map

// NotationFormatter encodes value trees in the notation format.
//
// Rendering of reals and booleans is configurable and persists across
// Format calls. Not safe for concurrent use.
type NotationFormatter struct {
	cfg formatterConfig
}

var _ Formatter = (*NotationFormatter)(nil)

// NewNotationFormatter creates a notation formatter.
//
// Returns an error only when an option rejects its argument.
func NewNotationFormatter(opts ...Option) (*NotationFormatter, error) {
	f := &NotationFormatter{}
	if err := options.Apply(&f.cfg, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// BoolAlpha switches boolean rendering between words and 1/0.
func (f *NotationFormatter) BoolAlpha(enabled bool) {
	f.cfg.boolAlpha = enabled
}

// RealFormat sets the fmt verb used for Real values; empty restores full
// precision.
func (f *NotationFormatter) RealFormat(format string) {
	f.cfg.realFormat = format
}

// Format writes v to w and returns the node count.
func (f *NotationFormatter) Format(v llsd.Value, w io.Writer) (int64, error) {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	nodes := f.encode(buf, v)
	if _, err := buf.WriteTo(w); err != nil {
		return 0, fmt.Errorf("notation format: %w", err)
	}

	return nodes, nil
}

func (f *NotationFormatter) encode(buf *pool.ByteBuffer, v llsd.Value) int64 {
	switch v.Type() {
	case llsd.TypeUndefined:
		buf.B = append(buf.B, '!')
	case llsd.TypeBoolean:
		buf.B = append(buf.B, f.cfg.formatBool(v.AsBoolean())...)
	case llsd.TypeInteger:
		buf.B = append(buf.B, 'i')
		buf.B = strconv.AppendInt(buf.B, int64(v.AsInteger()), 10)
	case llsd.TypeReal:
		buf.B = append(buf.B, 'r')
		buf.B = append(buf.B, f.cfg.formatReal(v.AsReal())...)
	case llsd.TypeUUID:
		buf.B = append(buf.B, 'u')
		buf.B = append(buf.B, v.AsUUID().String()...)
	case llsd.TypeDate:
		buf.B = append(buf.B, 'd', '"')
		buf.B = append(buf.B, v.AsDate().String()...)
		buf.B = append(buf.B, '"')
	case llsd.TypeURI:
		buf.B = append(buf.B, 'l')
		appendQuoted(buf, v.AsURI(), '"')
	case llsd.TypeString:
		appendQuoted(buf, v.AsString(), '\'')
	case llsd.TypeBinary:
		buf.B = append(buf.B, 'b', '6', '4', '"')
		buf.B = append(buf.B, base64.StdEncoding.EncodeToString(v.AsBinary())...)
		buf.B = append(buf.B, '"')
	case llsd.TypeArray:
		buf.B = append(buf.B, '[')
		nodes := int64(1)
		for i := 0; i < v.Size(); i++ {
			if i > 0 {
				buf.B = append(buf.B, ',')
			}
			nodes += f.encode(buf, v.At(i))
		}
		buf.B = append(buf.B, ']')

		return nodes
	case llsd.TypeMap:
		buf.B = append(buf.B, '{')
		nodes := int64(1)
		for i, key := range v.Keys() {
			if i > 0 {
				buf.B = append(buf.B, ',')
			}
			appendQuoted(buf, key, '\'')
			buf.B = append(buf.B, ':')
			nodes += f.encode(buf, v.Get(key))
		}
		buf.B = append(buf.B, '}')

		return nodes
	}

	return 1
}

// appendQuoted writes s wrapped in delim, escaping backslash and the
// delimiter itself. This is escaping-complete: the parser maps any
// backslash-escaped byte back to itself.
func appendQuoted(buf *pool.ByteBuffer, s string, delim byte) {
	buf.Grow(len(s) + 2)
	buf.B = append(buf.B, delim)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == delim {
			buf.B = append(buf.B, '\\')
		}
		buf.B = append(buf.B, c)
	}
	buf.B = append(buf.B, delim)
}

// NotationParser decodes the notation format.
//
// Not safe for concurrent use; Reset before reuse on a new input.
type NotationParser struct {
	src   *source
	nodes int64
}

var _ Parser = (*NotationParser)(nil)

// NewNotationParser creates a notation parser.
func NewNotationParser() *NotationParser {
	return &NotationParser{}
}

// Reset clears per-call state so the parser can be reused on a new input.
func (p *NotationParser) Reset() {
	p.src = nil
	p.nodes = 0
}

// Parse reads one notation-encoded value from r, consuming at most
// maxBytes bytes. Any production mismatch fails the whole parse; there is
// no local recovery.
func (p *NotationParser) Parse(r io.Reader, maxBytes int64) (llsd.Value, int64, error) {
	p.src = newSource(r, maxBytes)
	p.nodes = 0

	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return llsd.Undef(), ParseFailure, err
	}

	return v, p.nodes, nil
}

// skipSpace consumes ASCII whitespace between tokens.
func (p *NotationParser) skipSpace() {
	for {
		c, err := p.src.peekByte()
		if err != nil {
			return
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			_, _ = p.src.readByte()
		default:
			return
		}
	}
}

func (p *NotationParser) parseValue() (llsd.Value, error) {
	c, err := p.src.peekByte()
	if err != nil {
		return llsd.Undef(), err
	}

	switch c {
	case '!':
		_, _ = p.src.readByte()
		p.nodes++

		return llsd.Undef(), nil
	case '0', '1', 't', 'f', 'T', 'F':
		return p.parseBoolean()
	case 'i':
		return p.parseInteger()
	case 'r':
		return p.parseReal()
	case 'u':
		return p.parseUUID()
	case 'd':
		return p.parseDate()
	case 'l':
		return p.parseURI()
	case '\'', '"', 's':
		s, err := p.parseString()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.String(s), nil
	case 'b':
		return p.parseBinary()
	case '[':
		return p.parseArray()
	case '{':
		return p.parseMap()
	default:
		return llsd.Undef(), fmt.Errorf("%w: %q", errs.ErrUnknownTag, c)
	}
}

// expectLiteral consumes the given bytes exactly.
func (p *NotationParser) expectLiteral(rest string) error {
	for i := 0; i < len(rest); i++ {
		c, err := p.src.readByte()
		if err != nil {
			return err
		}
		if c != rest[i] {
			return fmt.Errorf("%w: %q", errs.ErrInvalidLiteral, c)
		}
	}

	return nil
}

// parseBoolean accepts exactly the spellings true/t/1/T/TRUE and
// false/f/0/F/FALSE. A one-letter spelling followed by the start of the
// word form must complete the word: "TR" is a failure, bare "T" is not.
func (p *NotationParser) parseBoolean() (llsd.Value, error) {
	c, _ := p.src.readByte()

	result := false
	var word string
	switch c {
	case '1':
		result = true
	case '0':
	case 't':
		result, word = true, "rue"
	case 'T':
		result, word = true, "RUE"
	case 'f':
		word = "alse"
	case 'F':
		word = "ALSE"
	}

	if word != "" {
		next, err := p.src.peekByte()
		if err == nil && next == word[0] {
			if err := p.expectLiteral(word); err != nil {
				return llsd.Undef(), err
			}
		}
	}
	p.nodes++

	return llsd.Boolean(result), nil
}

// readNumberRun collects the longest run of bytes from the allowed set.
func (p *NotationParser) readNumberRun(allowed string) (string, error) {
	var out []byte
	for {
		c, err := p.src.peekByte()
		if err != nil {
			break
		}
		found := false
		for i := 0; i < len(allowed); i++ {
			if c == allowed[i] {
				found = true
				break
			}
		}
		if !found {
			break
		}
		_, _ = p.src.readByte()
		out = append(out, c)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%w: empty numeric literal", errs.ErrInvalidLiteral)
	}

	return string(out), nil
}

func (p *NotationParser) parseInteger() (llsd.Value, error) {
	_, _ = p.src.readByte() // 'i'
	lit, err := p.readNumberRun("+-0123456789")
	if err != nil {
		return llsd.Undef(), err
	}
	i, err := strconv.ParseInt(lit, 10, 32)
	if err != nil {
		return llsd.Undef(), fmt.Errorf("%w: integer %q", errs.ErrInvalidLiteral, lit)
	}
	p.nodes++

	return llsd.Integer(int32(i)), nil
}

func (p *NotationParser) parseReal() (llsd.Value, error) {
	_, _ = p.src.readByte() // 'r'
	lit, err := p.readNumberRun("+-0123456789.eE")
	if err != nil {
		return llsd.Undef(), err
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return llsd.Undef(), fmt.Errorf("%w: real %q", errs.ErrInvalidLiteral, lit)
	}
	p.nodes++

	return llsd.Real(f), nil
}

func (p *NotationParser) parseUUID() (llsd.Value, error) {
	_, _ = p.src.readByte() // 'u'
	text, err := p.src.readFull(36)
	if err != nil {
		return llsd.Undef(), err
	}
	u, err := llsd.ParseUUID(string(text))
	if err != nil {
		return llsd.Undef(), fmt.Errorf("%w: %w", errs.ErrInvalidLiteral, err)
	}
	p.nodes++

	return llsd.FromUUID(u), nil
}

// readDelimited consumes a quote character and returns the quoted text.
func (p *NotationParser) readDelimited() (string, error) {
	delim, err := p.src.readByte()
	if err != nil {
		return "", err
	}
	if delim != '"' && delim != '\'' {
		return "", fmt.Errorf("%w: expected quote, got %q", errs.ErrInvalidLiteral, delim)
	}

	return readQuoted(p.src, delim)
}

func (p *NotationParser) parseDate() (llsd.Value, error) {
	_, _ = p.src.readByte() // 'd'
	text, err := p.readDelimited()
	if err != nil {
		return llsd.Undef(), err
	}
	d, err := llsd.ParseDate(text)
	if err != nil {
		return llsd.Undef(), fmt.Errorf("%w: %w", errs.ErrInvalidLiteral, err)
	}
	p.nodes++

	return llsd.FromDate(d), nil
}

func (p *NotationParser) parseURI() (llsd.Value, error) {
	_, _ = p.src.readByte() // 'l'
	text, err := p.readDelimited()
	if err != nil {
		return llsd.Undef(), err
	}
	p.nodes++

	return llsd.URI(text), nil
}

// parseString handles all three string productions: single-quoted,
// double-quoted, and the explicit-length form s(N)"…". It is also used
// for map keys.
func (p *NotationParser) parseString() (string, error) {
	c, err := p.src.peekByte()
	if err != nil {
		return "", err
	}

	switch c {
	case '\'', '"':
		return p.readDelimited()
	case 's':
		_, _ = p.src.readByte()
		payload, err := p.parseSizedPayload()
		if err != nil {
			return "", err
		}

		return string(payload), nil
	default:
		return "", fmt.Errorf("%w: string may not start with %q", errs.ErrInvalidLiteral, c)
	}
}

// parseSizedPayload parses the explicit-length form (N)"…" shared by
// s(N) strings and b(N) binary. The declared length is checked against
// the byte budget before the payload is read, and the closing quote must
// follow the payload immediately: a declared length one byte off in
// either direction fails.
func (p *NotationParser) parseSizedPayload() ([]byte, error) {
	if err := p.expectLiteral("("); err != nil {
		return nil, err
	}
	digits, err := p.readNumberRun("0123456789")
	if err != nil {
		return nil, err
	}
	size, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: length %q", errs.ErrInvalidLiteral, digits)
	}
	if err := p.expectLiteral(")"); err != nil {
		return nil, err
	}

	delim, err := p.src.readByte()
	if err != nil {
		return nil, err
	}
	if delim != '"' && delim != '\'' {
		return nil, fmt.Errorf("%w: expected quote, got %q", errs.ErrInvalidLiteral, delim)
	}

	payload, err := p.src.readFull(size)
	if err != nil {
		return nil, err
	}

	closing, err := p.src.readByte()
	if err != nil {
		return nil, err
	}
	if closing != delim {
		return nil, fmt.Errorf("%w: declared %d bytes but content continues", errs.ErrLengthMismatch, size)
	}

	return payload, nil
}

func (p *NotationParser) parseBinary() (llsd.Value, error) {
	_, _ = p.src.readByte() // 'b'
	c, err := p.src.peekByte()
	if err != nil {
		return llsd.Undef(), err
	}

	switch c {
	case '(':
		payload, err := p.parseSizedPayload()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.BinaryData(payload), nil
	case '1':
		if err := p.expectLiteral("16"); err != nil {
			return llsd.Undef(), err
		}

		return p.parseEncodedBinary(decodeHex)
	case '6':
		if err := p.expectLiteral("64"); err != nil {
			return llsd.Undef(), err
		}

		return p.parseEncodedBinary(decodeBase64)
	default:
		return llsd.Undef(), fmt.Errorf("%w: binary form b%q", errs.ErrInvalidLiteral, c)
	}
}

// parseEncodedBinary reads a quoted base64/hex payload and decodes it.
func (p *NotationParser) parseEncodedBinary(decode func(string) ([]byte, error)) (llsd.Value, error) {
	delim, err := p.src.readByte()
	if err != nil {
		return llsd.Undef(), err
	}
	if delim != '"' && delim != '\'' {
		return llsd.Undef(), fmt.Errorf("%w: expected quote, got %q", errs.ErrInvalidLiteral, delim)
	}

	var text []byte
	for {
		b, err := p.src.readByte()
		if err != nil {
			return llsd.Undef(), err
		}
		if b == delim {
			break
		}
		text = append(text, b)
	}

	data, err := decode(string(text))
	if err != nil {
		return llsd.Undef(), fmt.Errorf("%w: %w", errs.ErrInvalidLiteral, err)
	}
	p.nodes++

	return llsd.BinaryData(data), nil
}

func (p *NotationParser) parseArray() (llsd.Value, error) {
	_, _ = p.src.readByte() // '['
	arr := llsd.EmptyArray()

	p.skipSpace()
	if c, err := p.src.peekByte(); err == nil && c == ']' {
		_, _ = p.src.readByte()
		p.nodes++

		return arr, nil
	}

	for {
		p.skipSpace()
		child, err := p.parseValue()
		if err != nil {
			return llsd.Undef(), err
		}
		arr.Append(child)

		p.skipSpace()
		sep, err := p.src.readByte()
		if err != nil {
			return llsd.Undef(), err
		}
		if sep == ']' {
			break
		}
		if sep != ',' {
			return llsd.Undef(), fmt.Errorf("%w: expected ',' or ']', got %q", errs.ErrMalformedContainer, sep)
		}
	}
	p.nodes++

	return arr, nil
}

func (p *NotationParser) parseMap() (llsd.Value, error) {
	_, _ = p.src.readByte() // '{'
	m := llsd.EmptyMap()

	p.skipSpace()
	if c, err := p.src.peekByte(); err == nil && c == '}' {
		_, _ = p.src.readByte()
		p.nodes++

		return m, nil
	}

	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return llsd.Undef(), err
		}

		p.skipSpace()
		if err := p.expectLiteral(":"); err != nil {
			return llsd.Undef(), err
		}

		p.skipSpace()
		child, err := p.parseValue()
		if err != nil {
			return llsd.Undef(), err
		}
		m.Set(key, child)

		p.skipSpace()
		sep, err := p.src.readByte()
		if err != nil {
			return llsd.Undef(), err
		}
		if sep == '}' {
			break
		}
		if sep != ',' {
			return llsd.Undef(), fmt.Errorf("%w: expected ',' or '}', got %q", errs.ErrMalformedContainer, sep)
		}
	}
	p.nodes++

	return m, nil
}

// readQuoted reads quoted text up to the closing delim, resolving
// backslash escapes: the common C escapes, \xHH for an arbitrary byte,
// and any other escaped byte as itself.
func readQuoted(src *source, delim byte) (string, error) {
	var out []byte
	for {
		c, err := src.readByte()
		if err != nil {
			return "", err
		}
		if c == delim {
			return string(out), nil
		}
		if c != '\\' {
			out = append(out, c)
			continue
		}

		esc, err := src.readByte()
		if err != nil {
			return "", err
		}
		switch esc {
		case 'a':
			out = append(out, 0x07)
		case 'b':
			out = append(out, 0x08)
		case 'f':
			out = append(out, 0x0c)
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, 0x0b)
		case 'x':
			hi, err := src.readByte()
			if err != nil {
				return "", err
			}
			lo, err := src.readByte()
			if err != nil {
				return "", err
			}
			var b [1]byte
			if _, err := hex.Decode(b[:], []byte{hi, lo}); err != nil {
				return "", fmt.Errorf("%w: escape \\x%c%c", errs.ErrInvalidLiteral, hi, lo)
			}
			out = append(out, b[0])
		default:
			out = append(out, esc)
		}
	}
}

// decodeBase64 decodes standard base64, tolerating embedded whitespace.
func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(stripSpace(s))
}

// decodeHex decodes hex text, tolerating embedded whitespace.
func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(stripSpace(s))
}

func stripSpace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			out = append(out, s[i])
		}
	}

	return string(out)
}

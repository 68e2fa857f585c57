package serialize

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/endian"
	"github.com/arloliu/llsd/errs"
	"github.com/arloliu/llsd/internal/pool"
)

// Binary wire grammar: one leading tag byte per node, fixed or
// length-prefixed payload, every multi-byte integer big-endian.
//
//	'!'            undefined
//	'1' / '0'      boolean (single byte, no payload)
//	'i' u32        integer, two's complement
//	'r' u64        real, IEEE-754 bits
//	'u' 16 bytes   uuid
//	'd' u64        date, IEEE-754 seconds since epoch
//	's' u32 bytes  string
//	'l' u32 bytes  uri
//	'b' u32 bytes  binary
//	'[' u32 … ']'  array with element count
//	'{' u32 … '}'  map with entry count; entries are 'k' u32 key bytes
//	               (or a quoted string) followed by the value node

// BinaryFormatter encodes value trees in the binary wire format.
//
// Note: The BinaryFormatter is NOT safe for concurrent use. Each instance
// should be used by a single goroutine at a time.
type BinaryFormatter struct {
	engine endian.EndianEngine
}

var _ Formatter = (*BinaryFormatter)(nil)

// NewBinaryFormatter creates a binary formatter. The binary grammar has no
// configurable rendering, so it accepts no options.
func NewBinaryFormatter() *BinaryFormatter {
	return &BinaryFormatter{engine: endian.GetBigEndianEngine()}
}

// Format writes v to w and returns the node count.
//
// The document is assembled in a pooled buffer and handed to w in a
// single Write, so a partially written document never reaches the sink
// unless the sink itself fails mid-write.
func (f *BinaryFormatter) Format(v llsd.Value, w io.Writer) (int64, error) {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	nodes := f.encode(buf, v)
	if _, err := buf.WriteTo(w); err != nil {
		return 0, fmt.Errorf("binary format: %w", err)
	}

	return nodes, nil
}

// encode appends the wire form of v to buf and returns the node count.
func (f *BinaryFormatter) encode(buf *pool.ByteBuffer, v llsd.Value) int64 {
	switch v.Type() {
	case llsd.TypeUndefined:
		buf.B = append(buf.B, '!')
	case llsd.TypeBoolean:
		if v.AsBoolean() {
			buf.B = append(buf.B, '1')
		} else {
			buf.B = append(buf.B, '0')
		}
	case llsd.TypeInteger:
		buf.B = append(buf.B, 'i')
		buf.B = f.engine.AppendUint32(buf.B, uint32(v.AsInteger()))
	case llsd.TypeReal:
		buf.B = append(buf.B, 'r')
		buf.B = f.engine.AppendUint64(buf.B, math.Float64bits(v.AsReal()))
	case llsd.TypeUUID:
		buf.B = append(buf.B, 'u')
		u := v.AsUUID()
		buf.B = append(buf.B, u[:]...)
	case llsd.TypeDate:
		buf.B = append(buf.B, 'd')
		buf.B = f.engine.AppendUint64(buf.B, math.Float64bits(v.AsDate().Seconds()))
	case llsd.TypeString:
		f.encodeSized(buf, 's', []byte(v.AsString()))
	case llsd.TypeURI:
		f.encodeSized(buf, 'l', []byte(v.AsURI()))
	case llsd.TypeBinary:
		f.encodeSized(buf, 'b', v.AsBinary())
	case llsd.TypeArray:
		buf.B = append(buf.B, '[')
		buf.B = f.engine.AppendUint32(buf.B, uint32(v.Size()))
		nodes := int64(1)
		for i := 0; i < v.Size(); i++ {
			nodes += f.encode(buf, v.At(i))
		}
		buf.B = append(buf.B, ']')

		return nodes
	case llsd.TypeMap:
		buf.B = append(buf.B, '{')
		buf.B = f.engine.AppendUint32(buf.B, uint32(v.Size()))
		nodes := int64(1)
		for _, key := range v.Keys() {
			f.encodeSized(buf, 'k', []byte(key))
			nodes += f.encode(buf, v.Get(key))
		}
		buf.B = append(buf.B, '}')

		return nodes
	}

	return 1
}

// encodeSized appends tag, u32 byte length and raw payload.
func (f *BinaryFormatter) encodeSized(buf *pool.ByteBuffer, tag byte, payload []byte) {
	buf.Grow(5 + len(payload))
	buf.B = append(buf.B, tag)
	buf.B = f.engine.AppendUint32(buf.B, uint32(len(payload)))
	buf.B = append(buf.B, payload...)
}

// BinaryParser decodes the binary wire format.
//
// Note: The BinaryParser is NOT safe for concurrent use, and Reset must be
// called before reusing an instance on a new input.
type BinaryParser struct {
	engine endian.EndianEngine
	src    *source
	nodes  int64
}

var _ Parser = (*BinaryParser)(nil)

// NewBinaryParser creates a binary parser.
func NewBinaryParser() *BinaryParser {
	return &BinaryParser{engine: endian.GetBigEndianEngine()}
}

// Reset clears per-call state so the parser can be reused on a new input.
func (p *BinaryParser) Reset() {
	p.src = nil
	p.nodes = 0
}

// Parse reads one binary-encoded value from r, consuming at most maxBytes
// bytes. On any malformation it returns the Undefined value, ParseFailure
// and the classifying error; no partial tree is exposed.
func (p *BinaryParser) Parse(r io.Reader, maxBytes int64) (llsd.Value, int64, error) {
	p.src = newSource(r, maxBytes)
	p.nodes = 0

	v, err := p.parseValue()
	if err != nil {
		return llsd.Undef(), ParseFailure, err
	}

	return v, p.nodes, nil
}

func (p *BinaryParser) parseValue() (llsd.Value, error) {
	tag, err := p.src.readByte()
	if err != nil {
		return llsd.Undef(), err
	}

	switch tag {
	case '!':
		p.nodes++
		return llsd.Undef(), nil
	case '1':
		p.nodes++
		return llsd.Boolean(true), nil
	case '0':
		p.nodes++
		return llsd.Boolean(false), nil
	case 'i':
		buf, err := p.src.readFull(4)
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.Integer(int32(p.engine.Uint32(buf))), nil
	case 'r':
		f, err := p.parseDouble()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.Real(f), nil
	case 'd':
		f, err := p.parseDouble()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.FromDate(llsd.Date(f)), nil
	case 'u':
		buf, err := p.src.readFull(16)
		if err != nil {
			return llsd.Undef(), err
		}
		var u llsd.UUID
		copy(u[:], buf)
		p.nodes++

		return llsd.FromUUID(u), nil
	case 's':
		payload, err := p.parseSized()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.String(string(payload)), nil
	case 'l':
		payload, err := p.parseSized()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.URI(string(payload)), nil
	case 'b':
		payload, err := p.parseSized()
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.BinaryData(payload), nil
	case '\'', '"':
		// The original implementation also emits quoted strings inside
		// binary streams; accept them for wire compatibility.
		s, err := readQuoted(p.src, tag)
		if err != nil {
			return llsd.Undef(), err
		}
		p.nodes++

		return llsd.String(s), nil
	case '[':
		return p.parseArray()
	case '{':
		return p.parseMap()
	default:
		return llsd.Undef(), fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, tag)
	}
}

// parseDouble reads an 8-byte big-endian IEEE-754 double.
func (p *BinaryParser) parseDouble() (float64, error) {
	buf, err := p.src.readFull(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(p.engine.Uint64(buf)), nil
}

// parseSized reads a u32 length prefix and exactly that many payload
// bytes. The declared length is checked against the remaining budget
// before any payload is read.
func (p *BinaryParser) parseSized() ([]byte, error) {
	buf, err := p.src.readFull(4)
	if err != nil {
		return nil, err
	}
	size := int64(p.engine.Uint32(buf))

	return p.src.readFull(size)
}

// parseCount reads a u32 container count and sanity-checks it against the
// budget: every child occupies at least one byte, so a count larger than
// the remaining budget can never be satisfied.
func (p *BinaryParser) parseCount() (int64, error) {
	buf, err := p.src.readFull(4)
	if err != nil {
		return 0, err
	}
	count := int64(p.engine.Uint32(buf))
	if count > p.src.remaining() {
		return 0, fmt.Errorf("%w: container count %d exceeds remaining budget", errs.ErrBudgetExceeded, count)
	}

	return count, nil
}

func (p *BinaryParser) parseArray() (llsd.Value, error) {
	count, err := p.parseCount()
	if err != nil {
		return llsd.Undef(), err
	}

	arr := llsd.EmptyArray()
	for i := int64(0); i < count; i++ {
		child, err := p.parseValue()
		if err != nil {
			return llsd.Undef(), err
		}
		arr.Append(child)
	}

	// The terminator must follow the declared count immediately; anything
	// else means the count understates the content.
	term, err := p.src.readByte()
	if err != nil {
		return llsd.Undef(), err
	}
	if term != ']' {
		return llsd.Undef(), fmt.Errorf("%w: expected ']', got 0x%02x", errs.ErrMalformedContainer, term)
	}
	p.nodes++

	return arr, nil
}

func (p *BinaryParser) parseMap() (llsd.Value, error) {
	count, err := p.parseCount()
	if err != nil {
		return llsd.Undef(), err
	}

	m := llsd.EmptyMap()
	for i := int64(0); i < count; i++ {
		key, err := p.parseKey()
		if err != nil {
			return llsd.Undef(), err
		}
		child, err := p.parseValue()
		if err != nil {
			return llsd.Undef(), err
		}
		m.Set(key, child)
	}

	term, err := p.src.readByte()
	if err != nil {
		return llsd.Undef(), err
	}
	if term != '}' {
		return llsd.Undef(), fmt.Errorf("%w: expected '}', got 0x%02x", errs.ErrMalformedContainer, term)
	}
	p.nodes++

	return m, nil
}

// parseKey reads a map key: either 'k' + u32 length + raw bytes, or a
// quoted string.
func (p *BinaryParser) parseKey() (string, error) {
	tag, err := p.src.readByte()
	if err != nil {
		return "", err
	}

	switch tag {
	case 'k':
		payload, err := p.parseSized()
		if err != nil {
			return "", err
		}

		return string(payload), nil
	case '\'', '"':
		return readQuoted(p.src, tag)
	default:
		return "", fmt.Errorf("%w: map key tag 0x%02x", errs.ErrMalformedContainer, tag)
	}
}

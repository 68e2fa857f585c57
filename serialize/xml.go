package serialize

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/llsd"
	"github.com/arloliu/llsd/errs"
	"github.com/arloliu/llsd/internal/options"
	"github.com/arloliu/llsd/internal/pool"
)

// XMLFormatter encodes value trees as an <llsd> document.
//
// The document is a root <llsd> element wrapping exactly one value
// element, emitted on a single line with a trailing newline. Empty
// strings, null uuids and empty containers self-close with a space
// before the slash, matching the reference stream byte for byte.
//
// Not safe for concurrent use.
type XMLFormatter struct {
	cfg formatterConfig
}

var _ Formatter = (*XMLFormatter)(nil)

// NewXMLFormatter creates an XML formatter.
//
// Returns an error only when an option rejects its argument.
func NewXMLFormatter(opts ...Option) (*XMLFormatter, error) {
	f := &XMLFormatter{}
	if err := options.Apply(&f.cfg, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// BoolAlpha switches <boolean> content between true/false and 1/0.
// The parser accepts both spellings regardless of this setting.
func (f *XMLFormatter) BoolAlpha(enabled bool) {
	f.cfg.boolAlpha = enabled
}

// RealFormat sets the fmt verb used for <real> content; empty restores
// full precision.
func (f *XMLFormatter) RealFormat(format string) {
	f.cfg.realFormat = format
}

// Format writes v to w and returns the node count.
func (f *XMLFormatter) Format(v llsd.Value, w io.Writer) (int64, error) {
	buf := pool.GetDocBuffer()
	defer pool.PutDocBuffer(buf)

	buf.B = append(buf.B, "<llsd>"...)
	nodes := f.encode(buf, v)
	buf.B = append(buf.B, "</llsd>\n"...)

	if _, err := buf.WriteTo(w); err != nil {
		return 0, fmt.Errorf("xml format: %w", err)
	}

	return nodes, nil
}

func (f *XMLFormatter) encode(buf *pool.ByteBuffer, v llsd.Value) int64 {
	switch v.Type() {
	case llsd.TypeUndefined:
		buf.B = append(buf.B, "<undef />"...)
	case llsd.TypeBoolean:
		buf.B = append(buf.B, "<boolean>"...)
		buf.B = append(buf.B, f.cfg.formatBool(v.AsBoolean())...)
		buf.B = append(buf.B, "</boolean>"...)
	case llsd.TypeInteger:
		buf.B = append(buf.B, "<integer>"...)
		buf.B = strconv.AppendInt(buf.B, int64(v.AsInteger()), 10)
		buf.B = append(buf.B, "</integer>"...)
	case llsd.TypeReal:
		buf.B = append(buf.B, "<real>"...)
		buf.B = append(buf.B, f.cfg.formatReal(v.AsReal())...)
		buf.B = append(buf.B, "</real>"...)
	case llsd.TypeUUID:
		if v.AsUUID().IsNull() {
			buf.B = append(buf.B, "<uuid />"...)
		} else {
			buf.B = append(buf.B, "<uuid>"...)
			buf.B = append(buf.B, v.AsUUID().String()...)
			buf.B = append(buf.B, "</uuid>"...)
		}
	case llsd.TypeDate:
		buf.B = append(buf.B, "<date>"...)
		buf.B = append(buf.B, v.AsDate().String()...)
		buf.B = append(buf.B, "</date>"...)
	case llsd.TypeString:
		if v.AsString() == "" {
			buf.B = append(buf.B, "<string />"...)
		} else {
			buf.B = append(buf.B, "<string>"...)
			appendEscaped(buf, v.AsString())
			buf.B = append(buf.B, "</string>"...)
		}
	case llsd.TypeURI:
		if v.AsURI() == "" {
			buf.B = append(buf.B, "<uri />"...)
		} else {
			buf.B = append(buf.B, "<uri>"...)
			appendEscaped(buf, v.AsURI())
			buf.B = append(buf.B, "</uri>"...)
		}
	case llsd.TypeBinary:
		if len(v.AsBinary()) == 0 {
			buf.B = append(buf.B, "<binary />"...)
		} else {
			buf.B = append(buf.B, `<binary encoding="base64">`...)
			buf.B = append(buf.B, base64.StdEncoding.EncodeToString(v.AsBinary())...)
			buf.B = append(buf.B, "</binary>"...)
		}
	case llsd.TypeArray:
		if v.Size() == 0 {
			buf.B = append(buf.B, "<array />"...)
			return 1
		}
		buf.B = append(buf.B, "<array>"...)
		nodes := int64(1)
		for i := 0; i < v.Size(); i++ {
			nodes += f.encode(buf, v.At(i))
		}
		buf.B = append(buf.B, "</array>"...)

		return nodes
	case llsd.TypeMap:
		if v.Size() == 0 {
			buf.B = append(buf.B, "<map />"...)
			return 1
		}
		buf.B = append(buf.B, "<map>"...)
		nodes := int64(1)
		for _, key := range v.Keys() {
			buf.B = append(buf.B, "<key>"...)
			appendEscaped(buf, key)
			buf.B = append(buf.B, "</key>"...)
			nodes += f.encode(buf, v.Get(key))
		}
		buf.B = append(buf.B, "</map>"...)

		return nodes
	}

	return 1
}

// appendEscaped writes text content with the minimal XML escape set, so
// the emitted bytes match the reference stream exactly.
func appendEscaped(buf *pool.ByteBuffer, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			buf.B = append(buf.B, "&amp;"...)
		case '<':
			buf.B = append(buf.B, "&lt;"...)
		case '>':
			buf.B = append(buf.B, "&gt;"...)
		default:
			buf.B = append(buf.B, s[i])
		}
	}
}

// XMLParser decodes <llsd> documents using the standard XML tokenizer.
//
// Unlike the binary and notation parsers, malformed content inside an
// <array> or <map> recovers locally: an element that is not a recognized
// value element becomes a single Undefined node and parsing continues
// with the next sibling. Malformation at the document level (not
// well-formed XML, missing <llsd> root, unknown element at the root)
// still fails the whole parse.
//
// Not safe for concurrent use; Reset before reuse on a new input.
type XMLParser struct {
	nodes int64
}

var _ Parser = (*XMLParser)(nil)

// NewXMLParser creates an XML parser.
func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

// Reset clears per-call state so the parser can be reused on a new input.
func (p *XMLParser) Reset() {
	p.nodes = 0
}

// Parse reads one <llsd> document from r, consuming at most maxBytes
// bytes.
func (p *XMLParser) Parse(r io.Reader, maxBytes int64) (llsd.Value, int64, error) {
	p.nodes = 0

	src := r
	var limited *io.LimitedReader
	if maxBytes != SizeUnlimited {
		limited = &io.LimitedReader{R: r, N: maxBytes}
		src = limited
	}
	dec := xml.NewDecoder(src)

	fail := func(err error) (llsd.Value, int64, error) {
		// A document that stops mid-stream because the reader hit the
		// byte budget is a budget failure, not a malformation.
		if limited != nil && limited.N <= 0 {
			err = fmt.Errorf("%w: %w", errs.ErrBudgetExceeded, err)
		}

		return llsd.Undef(), ParseFailure, err
	}

	root, err := p.nextChild(dec)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", errs.ErrMalformedDocument, err))
	}
	if root == nil || root.Name.Local != "llsd" {
		return fail(errs.ErrMissingRoot)
	}

	se, err := p.nextChild(dec)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", errs.ErrMalformedDocument, err))
	}

	var v llsd.Value
	var count int64
	if se == nil {
		// <llsd></llsd> wraps no value element: the document denotes the
		// Undefined value.
		v, count = llsd.Undef(), 1
	} else {
		if !isValueElement(se.Name.Local) {
			return fail(fmt.Errorf("%w: <%s> at document root", errs.ErrUnknownElement, se.Name.Local))
		}
		v, count, err = p.parseElement(dec, *se)
		if err != nil {
			return fail(fmt.Errorf("%w: %w", errs.ErrMalformedDocument, err))
		}

		trailing, err := p.nextChild(dec)
		if err != nil {
			return fail(fmt.Errorf("%w: %w", errs.ErrMalformedDocument, err))
		}
		if trailing != nil {
			return fail(fmt.Errorf("%w: multiple value elements under <llsd>", errs.ErrMalformedDocument))
		}
	}

	p.nodes = count

	return v, count, nil
}

// nextChild returns the next StartElement at the current nesting level,
// or nil at the enclosing EndElement or end of input. Character data,
// comments, processing instructions and directives are skipped.
func (p *XMLParser) nextChild(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &t, nil
		case xml.EndElement:
			return nil, nil
		}
	}
}

// isValueElement reports whether name is one of the recognized value
// element names.
func isValueElement(name string) bool {
	switch name {
	case "undef", "boolean", "integer", "real", "string", "uuid", "date", "uri", "binary", "array", "map":
		return true
	default:
		return false
	}
}

// parseElement decodes one recognized value element, returning the value
// and the node count for the element's subtree.
func (p *XMLParser) parseElement(dec *xml.Decoder, se xml.StartElement) (llsd.Value, int64, error) {
	switch se.Name.Local {
	case "undef":
		if err := drainElement(dec); err != nil {
			return llsd.Undef(), 0, err
		}

		return llsd.Undef(), 1, nil
	case "boolean":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		t := strings.TrimSpace(text)

		return llsd.Boolean(t == "true" || t == "1"), 1, nil
	case "integer":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		// Unconvertible content degrades to zero rather than failing the
		// document; only structural problems abort an XML parse.
		i, _ := strconv.ParseInt(strings.TrimSpace(text), 10, 32)

		return llsd.Integer(int32(i)), 1, nil
	case "real":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		f, _ := strconv.ParseFloat(strings.TrimSpace(text), 64)

		return llsd.Real(f), 1, nil
	case "string":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}

		return llsd.String(text), 1, nil
	case "uuid":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		u, _ := llsd.ParseUUID(strings.TrimSpace(text))

		return llsd.FromUUID(u), 1, nil
	case "date":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		d, _ := llsd.ParseDate(strings.TrimSpace(text))

		return llsd.FromDate(d), 1, nil
	case "uri":
		text, err := collectText(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}

		return llsd.URI(text), 1, nil
	case "binary":
		return p.parseBinaryElement(dec, se)
	case "array":
		return p.parseArrayElement(dec)
	case "map":
		return p.parseMapElement(dec)
	default:
		return llsd.Undef(), 0, fmt.Errorf("%w: <%s>", errs.ErrUnknownElement, se.Name.Local)
	}
}

func (p *XMLParser) parseBinaryElement(dec *xml.Decoder, se xml.StartElement) (llsd.Value, int64, error) {
	for _, attr := range se.Attr {
		if attr.Name.Local == "encoding" && attr.Value != "base64" {
			// Unrecognized payload encoding: the element is syntactically
			// fine but its content cannot be interpreted.
			if err := drainElement(dec); err != nil {
				return llsd.Undef(), 0, err
			}

			return llsd.Undef(), 1, nil
		}
	}

	text, err := collectText(dec)
	if err != nil {
		return llsd.Undef(), 0, err
	}
	data, err := decodeBase64(text)
	if err != nil {
		return llsd.Undef(), 1, nil
	}

	return llsd.BinaryData(data), 1, nil
}

func (p *XMLParser) parseArrayElement(dec *xml.Decoder) (llsd.Value, int64, error) {
	arr := llsd.EmptyArray()
	nodes := int64(1)

	for {
		child, err := p.nextChild(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		if child == nil {
			return arr, nodes, nil
		}

		if !isValueElement(child.Name.Local) {
			// Local recovery: the foreign element becomes one Undefined
			// node at this position and parsing continues.
			if err := dec.Skip(); err != nil {
				return llsd.Undef(), 0, err
			}
			arr.Append(llsd.Undef())
			nodes++

			continue
		}

		v, n, err := p.parseElement(dec, *child)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		arr.Append(v)
		nodes += n
	}
}

func (p *XMLParser) parseMapElement(dec *xml.Decoder) (llsd.Value, int64, error) {
	m := llsd.EmptyMap()
	nodes := int64(1)

	var pendingKey *string
	for {
		child, err := p.nextChild(dec)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		if child == nil {
			if pendingKey != nil {
				// A trailing <key> with no value element is recovered as
				// one Undefined substitution without creating an entry.
				nodes++
			}

			return m, nodes, nil
		}

		if child.Name.Local == "key" {
			text, err := collectText(dec)
			if err != nil {
				return llsd.Undef(), 0, err
			}
			if pendingKey != nil {
				nodes++ // previous key never got its value
			}
			pendingKey = &text

			continue
		}

		if pendingKey == nil {
			// A value element with no preceding <key> is recovered the
			// same way as an unrecognized element.
			if err := dec.Skip(); err != nil {
				return llsd.Undef(), 0, err
			}
			nodes++

			continue
		}

		if !isValueElement(child.Name.Local) {
			if err := dec.Skip(); err != nil {
				return llsd.Undef(), 0, err
			}
			m.Set(*pendingKey, llsd.Undef())
			nodes++
			pendingKey = nil

			continue
		}

		v, n, err := p.parseElement(dec, *child)
		if err != nil {
			return llsd.Undef(), 0, err
		}
		m.Set(*pendingKey, v)
		nodes += n
		pendingKey = nil
	}
}

// collectText accumulates the character data of the current element up to
// its end tag. Nested elements are skipped.
func collectText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

// drainElement consumes the rest of the current element.
func drainElement(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

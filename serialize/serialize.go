package serialize

import (
	"io"

	"github.com/arloliu/llsd"
)

const (
	// SizeUnlimited disables byte-budget enforcement when passed as the
	// maxBytes argument of a parse.
	SizeUnlimited int64 = -1

	// ParseFailure is the node-count sentinel returned by a failed parse.
	// It is distinct from every valid (non-negative) node count.
	ParseFailure int64 = -1
)

// Formatter writes a value tree to a sink in one wire encoding.
//
// Format returns the number of nodes written, using the same counting
// convention parsers report, so a format/parse pair over the same bytes
// yields equal counts. Formatters are not safe for concurrent use.
type Formatter interface {
	Format(v llsd.Value, w io.Writer) (int64, error)
}

// Parser reads one wire encoding from a bounded source and rebuilds a
// value tree.
//
// Parse consumes at most maxBytes bytes (SizeUnlimited disables the
// check) and returns the parsed value and node count. On failure it
// returns the Undefined value, ParseFailure and a non-nil error. A Parser
// must be Reset before reuse on a new input and is not safe for
// concurrent use.
type Parser interface {
	Parse(r io.Reader, maxBytes int64) (llsd.Value, int64, error)
	Reset()
}

// ToBinary writes v to w in the binary encoding and returns the node count.
func ToBinary(v llsd.Value, w io.Writer) (int64, error) {
	return NewBinaryFormatter().Format(v, w)
}

// FromBinary parses a binary-encoded value from r, consuming at most
// maxBytes bytes.
func FromBinary(r io.Reader, maxBytes int64) (llsd.Value, int64, error) {
	return NewBinaryParser().Parse(r, maxBytes)
}

// ToNotation writes v to w in the notation encoding and returns the node count.
func ToNotation(v llsd.Value, w io.Writer) (int64, error) {
	f, err := NewNotationFormatter()
	if err != nil {
		return 0, err
	}

	return f.Format(v, w)
}

// FromNotation parses a notation-encoded value from r, consuming at most
// maxBytes bytes.
func FromNotation(r io.Reader, maxBytes int64) (llsd.Value, int64, error) {
	return NewNotationParser().Parse(r, maxBytes)
}

// ToXML writes v to w in the XML encoding and returns the node count.
func ToXML(v llsd.Value, w io.Writer) (int64, error) {
	f, err := NewXMLFormatter()
	if err != nil {
		return 0, err
	}

	return f.Format(v, w)
}

// FromXML parses an XML-encoded value from r, consuming at most maxBytes
// bytes.
func FromXML(r io.Reader, maxBytes int64) (llsd.Value, int64, error) {
	return NewXMLParser().Parse(r, maxBytes)
}

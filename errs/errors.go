// Package errs defines the sentinel errors shared by the llsd codecs.
//
// Parsers classify malformed input into a small, fixed taxonomy so that
// callers can branch on error kind with errors.Is while still receiving
// wrapped context from the call site.
package errs

import "errors"

var (
	// ErrUnknownTag indicates that a parser encountered a leading tag byte
	// or literal character that does not start any known production.
	ErrUnknownTag = errors.New("llsd: unknown leading tag")

	// ErrMalformedContainer indicates broken container framing: a missing
	// terminator, a missing separator, or a declared element count that
	// disagrees with the actual content.
	ErrMalformedContainer = errors.New("llsd: malformed container framing")

	// ErrInvalidLiteral indicates a scalar literal whose payload cannot be
	// decoded (bad integer/real digits, bad uuid text, bad date text, or
	// bad base64/hex content).
	ErrInvalidLiteral = errors.New("llsd: invalid scalar literal")

	// ErrLengthMismatch indicates a declared byte length that does not
	// equal the actual framed content length.
	ErrLengthMismatch = errors.New("llsd: declared length does not match content")

	// ErrTruncated indicates that the input ended before a structure was
	// complete.
	ErrTruncated = errors.New("llsd: truncated input")

	// ErrBudgetExceeded indicates that the caller-supplied byte budget was
	// exhausted, or that a declared length exceeds the remaining budget.
	ErrBudgetExceeded = errors.New("llsd: parse byte budget exceeded")

	// ErrUnknownElement indicates an unrecognized element name in an XML
	// document. Inside a container this is recovered locally; at the
	// document root it fails the parse.
	ErrUnknownElement = errors.New("llsd: unknown xml element")

	// ErrMissingRoot indicates an XML document without an enclosing <llsd>
	// root element.
	ErrMissingRoot = errors.New("llsd: missing llsd root element")

	// ErrMalformedDocument indicates input that is not well-formed XML.
	ErrMalformedDocument = errors.New("llsd: malformed xml document")
)

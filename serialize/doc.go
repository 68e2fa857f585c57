// Package serialize converts llsd.Value trees to and from the three
// interoperable wire encodings: a compact binary format, a human-readable
// notation format, and an XML format.
//
// Each encoding has a Formatter/Parser pair plus package-level entry
// points (ToBinary/FromBinary, ToNotation/FromNotation, ToXML/FromXML).
// Formatters walk a value tree and write bytes to an io.Writer; parsers
// read from an io.Reader bounded by a caller-supplied byte budget and
// rebuild the tree.
//
// # Counts and failure
//
// Both sides of every codec report a node count: 1 for a scalar, and for
// containers 1 plus the counts of all descendants (map keys are not
// nodes). A parser that rejects its input returns the Undefined value,
// the ParseFailure count sentinel, and a non-nil error from the errs
// taxonomy; it never exposes a partially built container.
//
// # Adversarial input
//
// Declared lengths are validated against both the byte budget and the
// actual framed content; container counts must match the content exactly.
// The XML parser is the one deliberate exception: an unrecognized element
// inside an <array> or <map> becomes a single Undefined node and parsing
// continues with the next sibling, while malformation at the document
// level still fails the whole parse.
//
// # Reuse
//
// Formatter configuration (real number format, boolean spelling) persists
// across calls on the same instance. Parser instances accumulate per-call
// counters and must be Reset before reuse on a new input. Neither is safe
// for concurrent use.
package serialize

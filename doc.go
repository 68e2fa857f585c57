// Package llsd implements LLSD ("structured data"), a self-describing
// hierarchical data model exchanged across process and language boundaries.
//
// A Value is a closed tagged union over eleven kinds: Undefined, Boolean,
// Integer (32-bit signed), Real (64-bit float), String (UTF-8), UUID
// (128-bit identifier), Date (UTC instant), URI, Binary (byte sequence),
// Array (ordered sequence of Value) and Map (string-keyed, iterated in
// lexicographic key order).
//
// Map key order is load-bearing: all three wire encodings emit map entries
// in lexicographic key order so that independent implementations produce
// byte-identical streams for equal values.
//
// # Basic Usage
//
// Building a value tree:
//
//	v := llsd.EmptyMap()
//	v.Set("name", llsd.String("luke"))
//	v.Set("age", llsd.Integer(3))
//
//	dogs := llsd.EmptyArray()
//	dogs.Append(llsd.String("groove"))
//	v.Set("dogs", dogs)
//
// Encoding and decoding live in the serialize subpackage:
//
//	var buf bytes.Buffer
//	nodes, err := serialize.ToBinary(v, &buf)
//	parsed, count, err := serialize.FromBinary(&buf, serialize.SizeUnlimited)
//
// Values follow value (copy) semantics: Array and Map exclusively own their
// children, trees are acyclic, and Clone produces a fully independent copy.
package llsd

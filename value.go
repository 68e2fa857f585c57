package llsd

import (
	"bytes"
	"sort"
)

// Type identifies the kind held by a Value.
type Type uint8

const (
	TypeUndefined Type = iota
	TypeBoolean
	TypeInteger
	TypeReal
	TypeString
	TypeUUID
	TypeDate
	TypeURI
	TypeBinary
	TypeArray
	TypeMap
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypeUUID:
		return "uuid"
	case TypeDate:
		return "date"
	case TypeURI:
		return "uri"
	case TypeBinary:
		return "binary"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node in an LLSD tree. The zero Value is Undefined.
//
// Only the payload field matching the type tag is meaningful; the others
// stay at their zero values. Container payloads are exclusively owned by
// the Value holding them.
type Value struct {
	typ Type

	boolVal bool
	intVal  int32
	realVal float64
	strVal  string // String and URI payloads
	uuidVal UUID
	dateVal Date
	binVal  []byte
	arrVal  []Value
	mapVal  map[string]Value
}

// Undef returns the Undefined value.
func Undef() Value {
	return Value{}
}

// Boolean returns a Boolean value.
func Boolean(b bool) Value {
	return Value{typ: TypeBoolean, boolVal: b}
}

// Integer returns an Integer value.
func Integer(i int32) Value {
	return Value{typ: TypeInteger, intVal: i}
}

// Real returns a Real value.
func Real(f float64) Value {
	return Value{typ: TypeReal, realVal: f}
}

// String returns a String value.
func String(s string) Value {
	return Value{typ: TypeString, strVal: s}
}

// URI returns a URIReference value. The text is carried opaquely and is
// not validated beyond being UTF-8.
func URI(s string) Value {
	return Value{typ: TypeURI, strVal: s}
}

// FromUUID returns a UUID value.
func FromUUID(u UUID) Value {
	return Value{typ: TypeUUID, uuidVal: u}
}

// FromDate returns a Date value.
func FromDate(d Date) Value {
	return Value{typ: TypeDate, dateVal: d}
}

// BinaryData returns a Binary value holding a copy of b.
func BinaryData(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)

	return Value{typ: TypeBinary, binVal: cp}
}

// EmptyArray returns an Array value with no elements.
func EmptyArray() Value {
	return Value{typ: TypeArray, arrVal: []Value{}}
}

// EmptyMap returns a Map value with no entries.
func EmptyMap() Value {
	return Value{typ: TypeMap, mapVal: map[string]Value{}}
}

// Type returns the kind tag of the value.
func (v Value) Type() Type {
	return v.typ
}

// IsUndefined reports whether the value is Undefined.
func (v Value) IsUndefined() bool {
	return v.typ == TypeUndefined
}

// AsBoolean returns the boolean payload, or false for other kinds.
func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		return false
	}

	return v.boolVal
}

// AsInteger returns the integer payload, or 0 for other kinds.
func (v Value) AsInteger() int32 {
	if v.typ != TypeInteger {
		return 0
	}

	return v.intVal
}

// AsReal returns the real payload, or 0 for other kinds.
func (v Value) AsReal() float64 {
	if v.typ != TypeReal {
		return 0
	}

	return v.realVal
}

// AsString returns the string payload, or "" for other kinds.
func (v Value) AsString() string {
	if v.typ != TypeString {
		return ""
	}

	return v.strVal
}

// AsURI returns the URI payload, or "" for other kinds.
func (v Value) AsURI() string {
	if v.typ != TypeURI {
		return ""
	}

	return v.strVal
}

// AsUUID returns the UUID payload, or the null UUID for other kinds.
func (v Value) AsUUID() UUID {
	if v.typ != TypeUUID {
		return UUID{}
	}

	return v.uuidVal
}

// AsDate returns the date payload, or the epoch for other kinds.
func (v Value) AsDate() Date {
	if v.typ != TypeDate {
		return 0
	}

	return v.dateVal
}

// AsBinary returns the binary payload, or nil for other kinds.
// The returned slice is owned by the value and must not be modified.
func (v Value) AsBinary() []byte {
	if v.typ != TypeBinary {
		return nil
	}

	return v.binVal
}

// Append appends child to the array. A non-array value is replaced by an
// empty array first, so appending to Undefined yields a one-element array.
func (v *Value) Append(child Value) {
	if v.typ != TypeArray {
		*v = EmptyArray()
	}
	v.arrVal = append(v.arrVal, child)
}

// At returns the array element at index i, or Undefined when i is out of
// range or the value is not an array.
func (v Value) At(i int) Value {
	if v.typ != TypeArray || i < 0 || i >= len(v.arrVal) {
		return Undef()
	}

	return v.arrVal[i]
}

// Set inserts or replaces the entry for key. A non-map value is replaced
// by an empty map first. Replacing an existing key does not change the
// relative order of the other keys, since iteration order is derived from
// the keys themselves.
func (v *Value) Set(key string, child Value) {
	if v.typ != TypeMap {
		*v = EmptyMap()
	}
	v.mapVal[key] = child
}

// Get returns the entry for key, or Undefined when absent or when the
// value is not a map.
func (v Value) Get(key string) Value {
	if v.typ != TypeMap {
		return Undef()
	}

	return v.mapVal[key]
}

// Has reports whether the map contains key.
func (v Value) Has(key string) bool {
	if v.typ != TypeMap {
		return false
	}
	_, ok := v.mapVal[key]

	return ok
}

// Keys returns the map keys in lexicographic order. This is the iteration
// order every wire encoding uses.
func (v Value) Keys() []string {
	if v.typ != TypeMap {
		return nil
	}

	keys := make([]string, 0, len(v.mapVal))
	for k := range v.mapVal {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Size returns the element count for arrays, the entry count for maps,
// and 0 for every other kind.
func (v Value) Size() int {
	switch v.typ {
	case TypeArray:
		return len(v.arrVal)
	case TypeMap:
		return len(v.mapVal)
	default:
		return 0
	}
}

// Clear resets the value to Undefined.
func (v *Value) Clear() {
	*v = Value{}
}

// Clone returns a deep copy of the value. Mutating the copy never affects
// the original.
func (v Value) Clone() Value {
	switch v.typ {
	case TypeBinary:
		return BinaryData(v.binVal)
	case TypeArray:
		out := Value{typ: TypeArray, arrVal: make([]Value, len(v.arrVal))}
		for i, child := range v.arrVal {
			out.arrVal[i] = child.Clone()
		}

		return out
	case TypeMap:
		out := Value{typ: TypeMap, mapVal: make(map[string]Value, len(v.mapVal))}
		for k, child := range v.mapVal {
			out.mapVal[k] = child.Clone()
		}

		return out
	default:
		return v
	}
}

// Equal reports deep structural equality: equal kind and equal payload,
// with Array/Map requiring equal length/keys and pairwise equal children.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}

	switch v.typ {
	case TypeUndefined:
		return true
	case TypeBoolean:
		return v.boolVal == other.boolVal
	case TypeInteger:
		return v.intVal == other.intVal
	case TypeReal:
		return v.realVal == other.realVal
	case TypeString, TypeURI:
		return v.strVal == other.strVal
	case TypeUUID:
		return v.uuidVal == other.uuidVal
	case TypeDate:
		return v.dateVal == other.dateVal
	case TypeBinary:
		return bytes.Equal(v.binVal, other.binVal)
	case TypeArray:
		if len(v.arrVal) != len(other.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(other.arrVal[i]) {
				return false
			}
		}

		return true
	case TypeMap:
		if len(v.mapVal) != len(other.mapVal) {
			return false
		}
		for k, child := range v.mapVal {
			otherChild, ok := other.mapVal[k]
			if !ok || !child.Equal(otherChild) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

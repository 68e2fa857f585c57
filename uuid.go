package llsd

import (
	"encoding/hex"
	"fmt"
)

// UUID is a 128-bit identifier. The all-zero UUID is the "null" value and
// is the zero value of the type.
//
// The canonical textual form is lowercase hyphenated hex in 8-4-4-4-12
// grouping, e.g. "c96f9b1e-f589-4100-9774-d98643ce0bed".
type UUID [16]byte

// NullUUID is the all-zero identifier.
var NullUUID UUID

// IsNull reports whether the UUID is all zero.
func (u UUID) IsNull() bool {
	return u == UUID{}
}

// String returns the canonical hyphenated-hex form.
func (u UUID) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], u[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], u[10:16])

	return string(buf[:])
}

// ParseUUID parses the canonical hyphenated-hex form. Both lowercase and
// uppercase hex digits are accepted.
func ParseUUID(s string) (UUID, error) {
	var u UUID
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return u, fmt.Errorf("uuid %q: not in 8-4-4-4-12 hyphenated form", s)
	}

	hexOnly := s[0:8] + s[9:13] + s[14:18] + s[19:23] + s[24:36]
	if _, err := hex.Decode(u[:], []byte(hexOnly)); err != nil {
		return UUID{}, fmt.Errorf("uuid %q: %w", s, err)
	}

	return u, nil
}

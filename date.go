package llsd

import (
	"fmt"
	"math"
	"time"
)

// Date is a UTC instant, stored as seconds since the Unix epoch with
// sub-second precision. The binary wire form is this float64 verbatim,
// which is why the model keeps the raw seconds rather than a time.Time.
//
// The canonical textual form is ISO-8601 with a trailing Z, with two
// fractional digits when the instant is not on a whole second, e.g.
// "2007-12-28T09:22:53.10Z".
type Date float64

// DateFromTime converts a time.Time to a Date.
func DateFromTime(t time.Time) Date {
	return Date(float64(t.Unix()) + float64(t.Nanosecond())/1e9)
}

// Time converts the Date to a time.Time in UTC.
func (d Date) Time() time.Time {
	whole, frac := math.Modf(float64(d))

	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

// Seconds returns the raw seconds-since-epoch payload.
func (d Date) Seconds() float64 {
	return float64(d)
}

// String returns the canonical ISO-8601 form.
func (d Date) String() string {
	secs := float64(d)
	whole := math.Floor(secs)
	// Round the fraction to centiseconds, carrying into the seconds field
	// when it rounds up to a full second.
	cs := int(math.Round((secs - whole) * 100))
	if cs >= 100 {
		whole++
		cs = 0
	}

	base := time.Unix(int64(whole), 0).UTC().Format("2006-01-02T15:04:05")
	if cs == 0 {
		return base + "Z"
	}

	return fmt.Sprintf("%s.%02dZ", base, cs)
}

// ParseDate parses the ISO-8601 textual form. A fractional second field of
// any width is accepted.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		return 0, fmt.Errorf("date %q: %w", s, err)
	}

	return DateFromTime(t), nil
}

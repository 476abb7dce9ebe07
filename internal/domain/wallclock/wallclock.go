// Package wallclock provides zone-less local timestamp types matching the
// AsteriTime wire format. Values are written and interpreted as the local
// wall-clock time of whoever produced them; no offset is stored. This is a
// documented ambiguity across timezones, carried over deliberately.
package wallclock

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for timestamps: YYYY-MM-DDTHH:mm:ss.
const DateTimeLayout = "2006-01-02T15:04:05"

// DateLayout is the wire format for calendar dates: YYYY-MM-DD.
const DateLayout = "2006-01-02"

// DateTime is a local wall-clock timestamp without a timezone offset.
type DateTime struct {
	t time.Time
}

// At converts a time.Time to a DateTime, keeping its wall-clock fields and
// dropping sub-second precision.
func At(t time.Time) DateTime {
	return DateTime{t: t.Truncate(time.Second)}
}

// ParseDateTime parses the YYYY-MM-DDTHH:mm:ss wire format. Inputs carrying
// fractional seconds or a zone suffix are truncated to the first 19 bytes,
// mirroring the original client's slice(0, 19) normalization.
func ParseDateTime(s string) (DateTime, error) {
	if len(s) > len(DateTimeLayout) {
		s = s[:len(DateTimeLayout)]
	}
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return DateTime{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return DateTime{t: t}, nil
}

// Time returns the underlying time.Time in the local location.
func (d DateTime) Time() time.Time { return d.t }

// IsZero reports whether the timestamp is unset.
func (d DateTime) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly before other.
func (d DateTime) Before(other DateTime) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d DateTime) After(other DateTime) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same instant.
func (d DateTime) Equal(other DateTime) bool { return d.t.Equal(other.t) }

func (d DateTime) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateTimeLayout)
}

// MarshalJSON emits the zone-less wire format.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.t.Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts the wire format, tolerating trailing fraction/zone.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DayBounds returns the inclusive local-midnight..23:59:59 window containing t.
// The reconciliation loop uses this to fetch the current day's tasks.
func DayBounds(t time.Time) (DateTime, DateTime) {
	y, m, day := t.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, day, 23, 59, 59, 0, t.Location())
	return DateTime{t: start}, DateTime{t: end}
}

// Date is a local calendar date (year-month-day), used by journal entries.
type Date struct {
	t time.Time
}

// DateOf truncates a time.Time to its local calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDate parses the YYYY-MM-DD wire format.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// Time returns local midnight of the date.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON emits YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.t.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD, tolerating a full datetime suffix.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

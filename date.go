package brokerage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date represents a calendar day without a time component. It is used for
// dividend payment dates and as-of filtering, where the provider speaks in
// days rather than instants.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate creates a new date from its year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

// Today returns the current date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// DateOf returns the calendar day of a given instant, in the instant's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses a date in "YYYY-MM-DD" format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate parses a date in "YYYY-MM-DD" format and panics on error. For tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// UTC returns the instant at midnight UTC on that day.
func (d Date) UTC() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool        { return d == Date{} }
func (d Date) After(o Date) bool   { return d.UTC().After(o.UTC()) }
func (d Date) Before(o Date) bool  { return d.UTC().Before(o.UTC()) }
func (d Date) Add(days int) Date   { return DateOf(d.UTC().AddDate(0, 0, days)) }
func (d Date) Year() int           { return d.year }
func (d Date) Month() time.Month   { return d.month }
func (d Date) Day() int            { return d.day }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

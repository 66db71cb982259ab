package model

import (
	"fmt"
	"time"
)

// MonthFormat is the format used to represent months as strings.
const MonthFormat = "2006-01"

// Month identifies one calendar month, with no finer granularity.
type Month struct {
	Year int
	Mon  time.Month
}

// NewMonth returns a normalized Month; out-of-range month values roll over
// into the adjacent year, matching time.Date semantics.
func NewMonth(year int, mon time.Month) Month {
	t := time.Date(year, mon, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Mon: t.Month()}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// ParseMonth parses a month from its "2006-01" representation.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthFormat, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", s, MonthFormat, err)
	}
	return MonthOf(t), nil
}

// Time returns the first instant of the month in UTC.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month in its standard "2006-01" form.
func (m Month) String() string { return m.Time().Format(MonthFormat) }

// Add returns the month n calendar months after m (n may be negative).
func (m Month) Add(n int) Month { return NewMonth(m.Year, m.Mon+time.Month(n)) }

// Next returns the month immediately following m.
func (m Month) Next() Month { return m.Add(1) }

// Before reports whether m is strictly earlier than x.
func (m Month) Before(x Month) bool {
	return m.Year < x.Year || (m.Year == x.Year && m.Mon < x.Mon)
}

// After reports whether m is strictly later than x.
func (m Month) After(x Month) bool { return x.Before(m) }

// MonthsBetween returns the number of month steps from a to b.
// Zero when equal, negative when b precedes a.
func MonthsBetween(a, b Month) int {
	return (b.Year-a.Year)*12 + int(b.Mon) - int(a.Mon)
}

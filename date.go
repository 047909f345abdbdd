package sobject

import (
	"fmt"
	"time"
)

// DateTime is the wire representation of an ISO 8601 timestamp.
type DateTime = time.Time

// Date is a calendar date without a time component, kept separate from
// DateTime so date and datetime properties stay distinguishable after
// unmarshalling.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// NewDate returns the given calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// FormatDate renders an ISO 8601 date (YYYY-MM-DD).
func FormatDate(d Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) String() string { return FormatDate(d) }

// ParseDateTime parses an RFC 3339 timestamp, accepting optional fractional
// seconds.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return t, nil
}

// FormatDateTime normalizes to UTC and formats using RFC3339Nano (Go trims
// trailing zeros), so naive and zoned inputs serialize with an explicit Z or
// offset suffix.
func FormatDateTime(t DateTime) string {
	return t.UTC().Format(time.RFC3339Nano)
}

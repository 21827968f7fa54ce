package todo

import (
	"fmt"
	"strings"
	"time"
)

// DateInputLayout is the date-only layout used by forms and request bodies.
const DateInputLayout = "2006-01-02"

// DisplayDateLayout is the layout used when showing dates to users.
const DisplayDateLayout = "Jan 2, 2006"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateInputLayout,
}

// ParseTimestamp parses a server timestamp. It accepts RFC 3339 and date-only
// values; values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// ParseDateInput parses a YYYY-MM-DD form value as midnight in loc.
func ParseDateInput(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(DateInputLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

// FormatDateInput formats a stored timestamp as a YYYY-MM-DD form value using
// its UTC calendar date.
func FormatDateInput(value time.Time) string {
	return value.UTC().Format(DateInputLayout)
}

// FormatDisplayDate formats a timestamp for display, or "" when zero.
func FormatDisplayDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(DisplayDateLayout)
}

// StartOfDay returns midnight of the calendar day of t in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// IsAfterToday reports whether due is strictly later than midnight of the day
// containing now. A date-only value for today is midnight itself and fails.
func IsAfterToday(due, now time.Time) bool {
	return due.After(StartOfDay(now))
}

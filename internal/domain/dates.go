package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire format for every date the backend accepts (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// FormatDate renders t in DateLayout using its UTC calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DateOnly trims a timestamp such as "2024-03-01T00:00:00Z" to its date part.
// Values without a time part are returned unchanged.
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// ParseDate accepts either DateLayout or RFC3339 input.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DisplayDate renders a backend date for tables ("Jan 2, 2006").
// Unparseable input is returned as-is so the row still shows something.
func DisplayDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// LongDate renders a backend date with the full month name ("January 2, 2006").
func LongDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

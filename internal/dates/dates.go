// Package dates parses the date values found in frontmatter freshness markers
// and on the command line.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout is the canonical freshness-marker format.
const Layout = "2006-01-02"

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse(Layout, s)
}

// ParseMarker parses a freshness marker. Besides plain dates it accepts
// RFC3339 timestamps, which some editors write on save.
func ParseMarker(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid date: empty")
	}
	if t, err := ParseDate(s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %q (want YYYY-MM-DD)", s)
}

// DaysBetween returns the number of whole days from then to now, comparing
// calendar dates in UTC.
func DaysBetween(then, now time.Time) int {
	a := truncateDay(then)
	b := truncateDay(now)
	return int(b.Sub(a).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders t as a freshness marker.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// ParseDateArg reads the --date value of `kba new`. Blank and "today" mean
// now, "yesterday" is one day earlier, anything else must be a marker date.
func ParseDateArg(arg string, now time.Time) (time.Time, error) {
	switch v := strings.ToLower(strings.TrimSpace(arg)); v {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	default:
		parsed, err := ParseDate(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: use %s, today or yesterday", arg, Layout)
		}
		return parsed, nil
	}
}

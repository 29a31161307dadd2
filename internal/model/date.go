package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of a calendar date as entered in the settings form.
const DateLayout = "2006-01-02"

// localLayouts carry no zone and are interpreted in the caller's location.
var localLayouts = []string{
	DateLayout,         // "2024-03-20"
	"2006-01-02T15:04", // datetime-local input "2024-03-20T19:30"
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseDateIn parses a stored date string. Date-only and datetime-local values are
// interpreted in loc; RFC 3339 values (including the millisecond form written by
// browsers, "2024-03-20T10:00:00.000Z") keep their own offset.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD)", s)
}

// IsCalendarDate reports whether s parses as a date.
func IsCalendarDate(s string) bool {
	_, err := ParseDateIn(s, time.UTC)
	return err == nil
}

// FormatDate formats t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Time returns the event's parsed date in loc.
// The second value is false when the stored date cannot be parsed.
func (e CalendarEvent) Time(loc *time.Location) (time.Time, bool) {
	t, err := ParseDateIn(e.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(loc), true
}

// IsUpcoming checks if the event is at or after now.
// Returns true if the date cannot be parsed (safer default).
func (e CalendarEvent) IsUpcoming(now time.Time) bool {
	t, ok := e.Time(now.Location())
	if !ok {
		return true
	}
	return !t.Before(now)
}

// DaysUntil returns the number of calendar days from now to the event, negative for past events.
// Returns 0 if the date cannot be parsed.
func (e CalendarEvent) DaysUntil(now time.Time) int {
	t, ok := e.Time(now.Location())
	if !ok {
		return 0
	}
	return CalendarDaysBetween(now, t)
}

// Time returns the trip's parsed date in loc.
func (t Trip) Time(loc *time.Location) (time.Time, bool) {
	parsed, err := ParseDateIn(t.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.In(loc), true
}

// CalendarDaysBetween returns the signed number of calendar days from a to b,
// ignoring time of day. Both values are read in their own location.
func CalendarDaysBetween(a, b time.Time) int {
	return int(dayNumber(b) - dayNumber(a))
}

// dayNumber returns the count of days since the Unix epoch for t's calendar date.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clock time within a single calendar day, stored as
// minutes since midnight.  Bookings use tenant-local wall-clock times,
// so no timezone arithmetic is performed on this type; it maps directly
// onto a MySQL TIME column.
type TimeOfDay int

// MinutesPerDay bounds a TimeOfDay value.  24:00 itself is not a valid
// start time but is accepted as an end time so a window can run to the
// end of the day.
const MinutesPerDay = 24 * 60

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into a TimeOfDay.  Seconds
// are truncated; bookings are minute-granular.  It returns an error for
// anything outside 00:00..24:00.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	t := TimeOfDay(h*60 + m)
	if t > MinutesPerDay {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

// TimeOfDayFrom extracts the wall-clock portion of a time.Time.  It is
// used by the sweeper to compare "now" against booking end times.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// Valid reports whether the value lies within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t <= MinutesPerDay }

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

// String renders the time as "HH:MM", e.g. "09:30".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// SQLTime renders the time as "HH:MM:SS" for binding against a MySQL
// TIME column.
func (t TimeOfDay) SQLTime() string {
	return fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60)
}

// DateFormat is the layout used for calendar dates throughout the
// service.  Dates carry no timezone; a booking on "2025-01-10" means
// that tenant-local calendar day.
const DateFormat = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date.  The returned time is
// midnight UTC and should only ever be compared date-to-date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, strings.TrimSpace(s))
}

// DateOnly truncates a timestamp to its calendar date in the same
// location, for comparisons against booking dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

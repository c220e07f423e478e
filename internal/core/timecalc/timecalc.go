// Package timecalc holds the wall-clock formatting and elapsed-time rules
// shared by the shift service, the reports and the kiosk.
package timecalc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ClockLayout is how clock-in/clock-out times are displayed and edited.
	ClockLayout = "3:04 PM"
	// DateLayout is the wire format of calendar dates (query params, events).
	DateLayout = "2006-01-02"
)

var (
	ErrInvalidClock          = errors.New("invalid clock time, expected h:mm AM/PM")
	ErrInvalidDate           = errors.New("invalid date, expected YYYY-MM-DD")
	ErrClockOutBeforeClockIn = errors.New("Invalid - Clock out before clock in")
)

// FormatClock renders t as a display clock time in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// FormatDuration renders elapsed time as "8h 30m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// TimeWorked computes the display duration between clock-in and clock-out.
// A nil clock-out means the shift is open and yields an empty string.
func TimeWorked(clockIn time.Time, clockOut *time.Time) (string, error) {
	if clockOut == nil {
		return "", nil
	}
	if !clockIn.Before(*clockOut) {
		return "", ErrClockOutBeforeClockIn
	}
	return FormatDuration(clockOut.Sub(clockIn)), nil
}

// OnDate places a display clock time ("9:05 am", "5:30 PM") on the calendar
// day of day, in loc.
func OnDate(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// ParseClock accepts "h:mm AM/PM" in any letter case, with or without the space.
func ParseClock(clock string) (hour, minute int, err error) {
	s := strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range []string{ClockLayout, "3:04PM"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DayRange returns [start, end) of the calendar day containing t in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// StartOfDay is midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// FileDate renders a date for report subjects and attachment names, e.g. "Oct14th2026".
func FileDate(t time.Time) string {
	return t.Format("Jan") + ordinal(t.Day()) + t.Format("2006")
}

func ordinal(day int) string {
	if day >= 11 && day <= 13 {
		return fmt.Sprintf("%dth", day)
	}
	switch day % 10 {
	case 1:
		return fmt.Sprintf("%dst", day)
	case 2:
		return fmt.Sprintf("%dnd", day)
	case 3:
		return fmt.Sprintf("%drd", day)
	default:
		return fmt.Sprintf("%dth", day)
	}
}

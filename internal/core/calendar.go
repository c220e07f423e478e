package core

import (
	"strings"
	"time"

	"timeclock.service/internal/core/timecalc"
)

// Calendar pins the business time zone and the clock every service reads.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a calendar in loc. A nil now uses the wall clock.
func NewCalendar(loc *time.Location, now func() time.Time) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Calendar{loc: loc, now: now}
}

func (c Calendar) Location() *time.Location { return c.loc }

// Now is the current instant, expressed in the business time zone.
func (c Calendar) Now() time.Time { return c.now().In(c.loc) }

// Year is the current calendar year in the business time zone.
func (c Calendar) Year() int { return c.Now().Year() }

// Today is midnight of the current business day.
func (c Calendar) Today() time.Time { return timecalc.StartOfDay(c.now(), c.loc) }

// Day resolves a YYYY-MM-DD query value to midnight of that business day.
// An empty value means today.
func (c Calendar) Day(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return c.Today(), nil
	}
	return timecalc.ParseDate(date, c.loc)
}

// Package schedule provides the business-calendar arithmetic used to
// turn effort estimates into calendar due dates. All functions are pure
// and operate at UTC day granularity; Saturdays and Sundays are the only
// non-business days (no holiday calendar).
package schedule

import "time"

// AddBusinessDays returns the instant that lies days business days after
// start. Counting begins on the calendar day after start; the landing
// day counts as day 1 when it is a business day, so the result never
// falls on a weekend. days is coerced to at least 1. The time of day of
// start is preserved.
func AddBusinessDays(start time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	d := start.UTC().AddDate(0, 0, 1)
	added := 0
	for {
		if isBusinessDay(d) {
			added++
		}
		if added >= days {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
}

// BusinessDaysBetween counts the business days strictly after start's
// UTC date up to and including end's. Returns 0 when end is before
// start.
func BusinessDaysBetween(start, end time.Time) int {
	s := dateOf(start)
	e := dateOf(end)
	if e.Before(s) {
		return 0
	}
	days := 0
	for d := s.AddDate(0, 0, 1); !d.After(e); d = d.AddDate(0, 0, 1) {
		if isBusinessDay(d) {
			days++
		}
	}
	return days
}

// EndOfWorkday normalizes t to the given hour and minute on the same UTC
// calendar day, with zero seconds.
func EndOfWorkday(t time.Time, hour, minute int) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), hour, minute, 0, 0, time.UTC)
}

func isBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

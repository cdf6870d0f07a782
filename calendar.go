package rotation

import (
	"sort"
	"time"

	"github.com/etnz/rotation/date"
)

// Calendar is an ordered, deduplicated sequence of trading days for one
// exchange over one date range. It is immutable once built.
type Calendar struct {
	days  []date.Date
	index map[date.Date]int
}

// BuildCalendar returns the calendar of trading days in [start, end]:
// weekdays (Mon-Fri) not present in the holidays set. An empty holidays set
// means "no holidays known" and is a valid input: the calendar degrades to a
// plain business-day calendar.
func BuildCalendar(start, end date.Date, holidays map[date.Date]bool) Calendar {
	var days []date.Date
	for d := start; !d.After(end); d = d.Add(1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if holidays[d] {
			continue
		}
		days = append(days, d)
	}
	return newCalendar(days)
}

// CalendarFromDates builds a calendar out of an arbitrary set of observed
// session dates, typically the dates of an instrument's own price history.
// Input order does not matter; duplicates are dropped.
func CalendarFromDates(days []date.Date) Calendar {
	seen := make(map[date.Date]bool, len(days))
	unique := make([]date.Date, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Before(unique[j]) })
	return newCalendar(unique)
}

func newCalendar(sorted []date.Date) Calendar {
	index := make(map[date.Date]int, len(sorted))
	for i, d := range sorted {
		index[d] = i
	}
	return Calendar{days: sorted, index: index}
}

// Len returns the number of trading days in the calendar.
func (c Calendar) Len() int { return len(c.days) }

// Days returns the trading days in ascending order. The caller must not
// mutate the returned slice.
func (c Calendar) Days() []date.Date { return c.days }

// Contains reports whether d is a trading day of this calendar.
func (c Calendar) Contains(d date.Date) bool {
	_, ok := c.index[d]
	return ok
}

// Shift returns the trading day 'offset' sessions away from ref.
//
// If ref is itself a trading day it is the base; otherwise the base is the
// most recent trading day before ref. This makes "buy N sessions before an
// ex-date" well defined even when the ex-date lands on a weekend or holiday.
// The second return value is false when no base exists or the offset runs
// past either end of the calendar; callers treat that as "no valid date
// could be computed", never as a panic.
func (c Calendar) Shift(ref date.Date, offset int) (date.Date, bool) {
	base, ok := c.index[ref]
	if !ok {
		// Most recent trading day strictly before ref.
		base = sort.Search(len(c.days), func(i int) bool { return !c.days[i].Before(ref) }) - 1
		if base < 0 {
			return date.Date{}, false
		}
	}
	target := base + offset
	if target < 0 || target >= len(c.days) {
		return date.Date{}, false
	}
	return c.days[target], true
}

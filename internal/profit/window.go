package profit

import (
	"fmt"
	"time"
)

// Period names a calendar-aligned reporting window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod converts raw input into a Period.
func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(value), nil
	}
	return "", fmt.Errorf("invalid period %q", value)
}

// Window is a time range with inclusive bounds. An unbounded window matches
// every well-formed timestamp ("all time").
type Window struct {
	Start   time.Time
	End     time.Time
	Bounded bool
}

// Contains reports whether t falls inside the window. Zero timestamps are
// treated as malformed and never match, bounded or not.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if !w.Bounded {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// CustomWindow builds an inclusive window from explicit bounds.
func CustomWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC(), Bounded: true}
}

// CurrentWindow returns the calendar window containing now for the period.
// Weeks start on Monday.
func CurrentWindow(period Period, now time.Time) Window {
	now = now.UTC()
	switch period {
	case PeriodWeek:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := day.AddDate(0, 0, -(weekday - 1))
		return Window{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond), Bounded: true}
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond), Bounded: true}
	case PeriodYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond), Bounded: true}
	default:
		return Window{}
	}
}

// PreviousWindow returns the calendar period immediately before w. "All time"
// has no prior period, reported by the second return value.
func PreviousWindow(period Period, w Window) (Window, bool) {
	if !w.Bounded {
		return Window{}, false
	}
	switch period {
	case PeriodWeek:
		start := w.Start.AddDate(0, 0, -7)
		return Window{Start: start, End: w.Start.Add(-time.Nanosecond), Bounded: true}, true
	case PeriodMonth:
		start := w.Start.AddDate(0, -1, 0)
		return Window{Start: start, End: w.Start.Add(-time.Nanosecond), Bounded: true}, true
	case PeriodYear:
		start := w.Start.AddDate(-1, 0, 0)
		return Window{Start: start, End: w.Start.Add(-time.Nanosecond), Bounded: true}, true
	}
	return Window{}, false
}

package series

import (
	"errors"
	"fmt"
	"time"
)

// Range is a trailing window anchored at the last observation.
type Range string

const (
	Range24h Range = "24h"
	Range3d  Range = "3d"
	Range7d  Range = "7d"
	RangeAll Range = "all"
)

var (
	ErrUnknownRange = errors.New("unknown range")
	ErrInvalidDay   = errors.New("invalid day")
)

// Ranges lists the accepted range keys.
var Ranges = []Range{Range24h, Range3d, Range7d, RangeAll}

// ParseRange validates a range key. The empty string selects RangeAll.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return RangeAll, nil
	}
	r := Range(s)
	if _, ok := r.Duration(); ok || r == RangeAll {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q (allowed: 24h, 3d, 7d, all)", ErrUnknownRange, s)
}

// Duration returns the window length; ok is false for RangeAll and unknown keys.
func (r Range) Duration() (time.Duration, bool) {
	switch r {
	case Range24h:
		return 24 * time.Hour, true
	case Range3d:
		return 3 * 24 * time.Hour, true
	case Range7d:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

// FilterByRange keeps the rows no older than the window before the last row.
// RangeAll, unknown keys and empty series return s unchanged.
func FilterByRange(s Series, r Range) Series {
	if len(s) == 0 {
		return s
	}
	d, ok := r.Duration()
	if !ok {
		return s
	}
	end := s[len(s)-1].Time
	start := end.Add(-d)

	out := make(Series, 0, len(s))
	for _, obs := range s {
		if !obs.Time.Before(start) {
			out = append(out, obs)
		}
	}
	return out
}

// Day is one calendar day in a particular location, as a closed interval.
type Day struct {
	Date  string
	Start time.Time
	End   time.Time
}

// ParseDay interprets a YYYY-MM-DD string as the local day in loc, spanning
// midnight to 23:59:59.999.
func ParseDay(s string, loc *time.Location) (Day, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(s) != len(time.DateOnly) {
		return Day{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDay, s)
	}
	start, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDay, s)
	}
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return Day{Date: s, Start: start, End: end}, nil
}

// Contains reports whether t falls within the day, bounds included.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

func (d Day) String() string { return d.Date }

// FilterByDay keeps the rows whose instant falls on d.
func FilterByDay(s Series, d Day) Series {
	out := make(Series, 0)
	for _, obs := range s {
		if d.Contains(obs.Time) {
			out = append(out, obs)
		}
	}
	return out
}

// Selection is the chart's active filter. Day, when set, overrides Range.
type Selection struct {
	Range Range
	Day   *Day
}

// Select applies the selection to s.
func Select(s Series, sel Selection) Series {
	if sel.Day != nil {
		return FilterByDay(s, *sel.Day)
	}
	return FilterByRange(s, sel.Range)
}

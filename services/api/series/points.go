package series

import (
	"time"
)

// Point is one chart sample. Value is nil when the row has no numeric value
// for the metric, leaving a gap in the line.
type Point struct {
	Label string    `json:"label"`
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// Points projects s onto metric as chart-ready pairs.
func Points(s Series, metric string) []Point {
	out := make([]Point, 0, len(s))
	for _, obs := range s {
		p := Point{Label: obs.Label, Time: obs.Time}
		if v, ok := obs.Float(metric); ok {
			p.Value = &v
		}
		out = append(out, p)
	}
	return out
}

// HasValues reports whether any point carries a value.
func HasValues(pts []Point) bool {
	for _, p := range pts {
		if p.Value != nil {
			return true
		}
	}
	return false
}

// LocalDay formats the calendar day of t in loc as YYYY-MM-DD.
func LocalDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(time.DateOnly)
}

// DayBounds returns the local days of the first and last observation, which
// bound the days a caller can usefully pick.
func DayBounds(s Series, loc *time.Location) (first, last string, ok bool) {
	if len(s) == 0 {
		return "", "", false
	}
	return LocalDay(s[0].Time, loc), LocalDay(s[len(s)-1].Time, loc), true
}

// HasDay reports whether any observation falls on the local day.
func HasDay(s Series, day string, loc *time.Location) bool {
	for _, obs := range s {
		if LocalDay(obs.Time, loc) == day {
			return true
		}
	}
	return false
}

// SuggestDay picks a day worth jumping to when the current selection shows
// nothing: today if the series has data for it, otherwise the latest day.
func SuggestDay(s Series, now time.Time, loc *time.Location) string {
	today := LocalDay(now, loc)
	if HasDay(s, today, loc) {
		return today
	}
	_, last, _ := DayBounds(s, loc)
	return last
}

package series

import (
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/02loveslollipop/asos-explorer/services/api/payload"
)

// TimeKeys lists the timestamp field names the normalizer recognises, in
// priority order.
var TimeKeys = []string{
	"timestamp",
	"time",
	"datetime",
	"date",
	"valid_time",
	"obsTimeUtc",
	"valid",
	"ob_time",
}

var historicalShapes = []payload.Strategy{
	payload.Array(),
	payload.Key("points"),
	payload.Key("data"),
	payload.Key("results"),
}

const (
	// Numeric timestamps above this are already milliseconds since the epoch.
	epochMillisThreshold = 1e10
	// Largest representable instant, in ms from the epoch, either side.
	maxEpochMillis = 8.64e15
)

// Zone-aware layouts are tried before zone-less ones.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05 MST",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
}

// Offsets, in hours, of the zone abbreviations accepted in timestamps.
var zoneAbbrevs = map[string]int{
	"UTC": 0, "GMT": 0, "UT": 0, "Z": 0,
	"EST": -5, "EDT": -4,
	"CST": -6, "CDT": -5,
	"MST": -7, "MDT": -6,
	"PST": -8, "PDT": -7,
}

// resolveAbbrev pins a time parsed from a zone abbreviation to the
// abbreviation's real offset. time.Parse gives abbreviations unknown to the
// local zone a zero offset, so anything outside zoneAbbrevs is rejected.
func resolveAbbrev(t time.Time) (time.Time, bool) {
	name, _ := t.Zone()
	hours, ok := zoneAbbrevs[name]
	if !ok {
		return time.Time{}, false
	}
	zone := time.FixedZone(name, hours*3600)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone), true
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	time.ANSIC,
}

// Normalizer turns historical payloads into a Series. Location is used for
// timestamps that carry neither an offset nor a zone; nil means UTC.
type Normalizer struct {
	Location *time.Location
}

// Report describes what a normalization pass saw.
type Report struct {
	TimeKey string
	Input   int
	Kept    int
}

// Dropped is the number of input rows that did not survive.
func (r Report) Dropped() int { return r.Input - r.Kept }

// Normalize runs the default Normalizer over raw.
func Normalize(raw any) Series {
	return Normalizer{}.Normalize(raw)
}

// Normalize converts raw into a Series sorted by instant. Malformed payloads
// yield an empty series and malformed rows are skipped.
func (n Normalizer) Normalize(raw any) Series {
	s, _ := n.NormalizeReport(raw)
	return s
}

// NormalizeReport is Normalize plus a summary of the pass.
func (n Normalizer) NormalizeReport(raw any) (Series, Report) {
	rows := payload.Rows(raw, historicalShapes...)
	rep := Report{Input: len(rows)}
	if len(rows) == 0 {
		return Series{}, rep
	}

	first, ok := rows[0].(map[string]any)
	if !ok {
		return Series{}, rep
	}
	key := detectTimeKey(first)
	if key == "" {
		return Series{}, rep
	}
	rep.TimeKey = key

	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}

	out := make(Series, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		t, ok := parseTimestamp(row[key], loc)
		if !ok {
			continue
		}

		fields := make(map[string]any, len(row)+1)
		maps.Copy(fields, row)
		if ws, ok := windSpeed(row); ok {
			fields[FieldWindSpeed] = ws
		}
		out = append(out, Observation{Fields: fields, Time: t, Label: Label(t)})
	}

	slices.SortStableFunc(out, func(a, b Observation) int {
		return a.Time.Compare(b.Time)
	})
	rep.Kept = len(out)
	return out, rep
}

func detectTimeKey(row map[string]any) string {
	for _, k := range TimeKeys {
		if _, ok := row[k]; ok {
			return k
		}
	}
	return ""
}

func parseTimestamp(v any, loc *time.Location) (time.Time, bool) {
	if s, ok := v.(string); ok {
		return ParseTime(s, loc)
	}
	if !isNumber(v) {
		return time.Time{}, false
	}
	f, ok := ToFloat(v)
	if !ok {
		return time.Time{}, false
	}
	// Values up to 1e10 are epoch seconds. A microsecond branch has never
	// been distinguished upstream, so anything larger is milliseconds.
	ms := f
	if f <= epochMillisThreshold {
		ms = f * 1000
	}
	ms = math.Trunc(ms)
	if math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// ParseTime parses a date/time string in any of the accepted layouts.
// Date-only ISO strings are UTC midnight; other zone-less values are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if strings.Contains(layout, "MST") {
			return resolveAbbrev(t)
		}
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// windSpeed derives the horizontal wind magnitude from wind_x/wind_y. Rows
// that already report a wind_speed keep it.
func windSpeed(row map[string]any) (float64, bool) {
	wx, wy := row["wind_x"], row["wind_y"]
	if wx == nil && wy == nil {
		return 0, false
	}
	if existing := row[FieldWindSpeed]; existing != nil {
		return 0, false
	}
	x, _ := ToFloat(wx)
	y, _ := ToFloat(wy)
	sp := math.Hypot(x, y)
	if math.IsNaN(sp) || math.IsInf(sp, 0) {
		return 0, false
	}
	return sp, true
}

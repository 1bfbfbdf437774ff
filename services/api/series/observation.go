package series

import (
	"encoding/json"
	"maps"
	"time"
)

// Keys reserved for the normalizer's derived values.
const (
	FieldParsedTime = "parsed_time"
	FieldLabel      = "label"
	FieldWindSpeed  = "wind_speed"
)

const labelLayout = "2006-01-02 15:04"

// Observation is one normalized row: the upstream fields passed through as-is
// plus the instant and display label derived from the timestamp field.
type Observation struct {
	Fields map[string]any
	Time   time.Time
	Label  string
}

// Series is a time-ordered run of observations for one station.
type Series []Observation

// Get returns the raw value stored under key.
func (o Observation) Get(key string) (any, bool) {
	v, ok := o.Fields[key]
	return v, ok
}

// Float returns the value under key when it passes the numeric predicate.
func (o Observation) Float(key string) (float64, bool) {
	return ToFloat(o.Fields[key])
}

// MarshalJSON flattens the row back into a single object; the derived keys
// take precedence over raw fields of the same name.
func (o Observation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Fields)+2)
	maps.Copy(out, o.Fields)
	out[FieldParsedTime] = o.Time
	out[FieldLabel] = o.Label
	return json.Marshal(out)
}

// Label renders t as the canonical UTC chart label, e.g. "2024-03-01 14:05Z".
func Label(t time.Time) string {
	return t.UTC().Format(labelLayout) + "Z"
}

// Start returns the instant of the first observation.
func (s Series) Start() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[0].Time, true
}

// End returns the instant of the last observation.
func (s Series) End() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[len(s)-1].Time, true
}

package series

import (
	"cmp"
	"slices"
)

// DefaultScanRows bounds how many rows DiscoverMetrics inspects.
const DefaultScanRows = 10000

// PreferredMetrics are charted by default, in order, when present.
var PreferredMetrics = []string{
	"temperature",
	"temp",
	"air_temp",
	"dewpoint",
	"wind_speed",
	"wind_x",
	"wind_y",
	"pressure",
	"precip",
	"seaLevelPressure",
}

// Discovery is the result of scanning a series for numeric fields.
type Discovery struct {
	// Keys holds every field with at least one numeric value, most frequent first.
	Keys    []string
	Counts  map[string]int
	Scanned int
}

// MetricStat is one discovered field with its coverage over the scanned rows.
type MetricStat struct {
	Key      string  `json:"key"`
	Count    int     `json:"count"`
	Coverage float64 `json:"coverage"`
}

// DiscoverMetrics counts, per field, how many of the first maxRows rows hold a
// numeric value. maxRows <= 0 uses DefaultScanRows. Ties are broken by name.
func DiscoverMetrics(s Series, maxRows int) Discovery {
	if maxRows <= 0 {
		maxRows = DefaultScanRows
	}
	n := min(len(s), maxRows)

	counts := make(map[string]int)
	for _, obs := range s[:n] {
		for k, v := range obs.Fields {
			if k == FieldParsedTime || k == FieldLabel {
				continue
			}
			if IsNumeric(v) {
				counts[k]++
			}
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if d := counts[b] - counts[a]; d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})

	return Discovery{Keys: keys, Counts: counts, Scanned: n}
}

// Coverage is the share of scanned rows with a numeric value for key.
func (d Discovery) Coverage(key string) float64 {
	if d.Scanned == 0 {
		return 0
	}
	return float64(d.Counts[key]) / float64(d.Scanned)
}

// Has reports whether key was discovered.
func (d Discovery) Has(key string) bool {
	return d.Counts[key] > 0
}

// Stats lists the discovered keys in order with their counts.
func (d Discovery) Stats() []MetricStat {
	out := make([]MetricStat, 0, len(d.Keys))
	for _, k := range d.Keys {
		out = append(out, MetricStat{Key: k, Count: d.Counts[k], Coverage: d.Coverage(k)})
	}
	return out
}

// DefaultMetric picks the metric to chart first: the first preferred
// meteorological field that was discovered, otherwise the most frequent key.
func DefaultMetric(keys []string) string {
	for _, p := range PreferredMetrics {
		if slices.Contains(keys, p) {
			return p
		}
	}
	if len(keys) > 0 {
		return keys[0]
	}
	return ""
}

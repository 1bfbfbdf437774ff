package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsAt(fields ...map[string]any) Series {
	raw := make([]any, 0, len(fields))
	for i, f := range fields {
		f["time"] = 1700000000.0 + float64(i)*60
		raw = append(raw, f)
	}
	return Normalize(raw)
}

func TestDiscoverMetrics_OrdersByCount(t *testing.T) {
	s := rowsAt(
		map[string]any{"temp": 1.0, "pressure": "1013", "note": "ok"},
		map[string]any{"temp": 2.0, "pressure": nil, "dewpoint": 0.0},
		map[string]any{"temp": "3", "pressure": "n/a", "dewpoint": -1.0},
	)

	d := DiscoverMetrics(s, 0)
	assert.Equal(t, []string{"temp", "time", "dewpoint", "pressure"}, d.Keys)
	assert.Equal(t, 3, d.Counts["temp"])
	assert.Equal(t, 2, d.Counts["dewpoint"])
	assert.Equal(t, 1, d.Counts["pressure"])
	assert.NotContains(t, d.Counts, "note")
	assert.Equal(t, 3, d.Scanned)
	assert.InDelta(t, 1.0/3, d.Coverage("pressure"), 1e-9)
	assert.True(t, d.Has("dewpoint"))
	assert.False(t, d.Has("note"))
}

func TestDiscoverMetrics_SkipsDerivedKeys(t *testing.T) {
	s := rowsAt(map[string]any{"label": 5.0, "parsed_time": 6.0, "temp": 1.0})
	d := DiscoverMetrics(s, 0)
	assert.NotContains(t, d.Keys, FieldLabel)
	assert.NotContains(t, d.Keys, FieldParsedTime)
	assert.Contains(t, d.Keys, "temp")
}

func TestDiscoverMetrics_RespectsScanCap(t *testing.T) {
	s := rowsAt(
		map[string]any{"a": 1.0},
		map[string]any{"a": 1.0},
		map[string]any{"b": 1.0},
	)
	d := DiscoverMetrics(s, 2)
	assert.Equal(t, 2, d.Scanned)
	assert.Equal(t, 2, d.Counts["a"])
	assert.NotContains(t, d.Keys, "b")
}

func TestDiscoverMetrics_Empty(t *testing.T) {
	d := DiscoverMetrics(Series{}, 0)
	assert.Empty(t, d.Keys)
	assert.Zero(t, d.Coverage("temp"))
	assert.Equal(t, "", DefaultMetric(d.Keys))
}

func TestDiscoverMetrics_DeterministicTies(t *testing.T) {
	s := rowsAt(map[string]any{"zeta": 1.0, "alpha": 1.0, "mid": 1.0})
	for range 5 {
		d := DiscoverMetrics(s, 0)
		require.Len(t, d.Keys, 4)
		assert.Equal(t, []string{"alpha", "mid", "time", "zeta"}, d.Keys)
	}
}

func TestDiscovery_Stats(t *testing.T) {
	s := rowsAt(map[string]any{"temp": 1.0}, map[string]any{"temp": nil})
	stats := DiscoverMetrics(s, 0).Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, MetricStat{Key: "time", Count: 2, Coverage: 1}, stats[0])
	assert.Equal(t, MetricStat{Key: "temp", Count: 1, Coverage: 0.5}, stats[1])
}

func TestDefaultMetric(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"preferred beats frequency", []string{"humidity", "pressure", "temp"}, "temp"},
		{"preference order", []string{"wind_speed", "dewpoint"}, "dewpoint"},
		{"falls back to most frequent", []string{"humidity", "visibility"}, "humidity"},
		{"nothing discovered", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultMetric(tt.keys))
		})
	}
}

package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoints(t *testing.T) {
	s := Normalize([]any{
		map[string]any{"time": 1700000000.0, "temp": "21.5"},
		map[string]any{"time": 1700000060.0, "temp": "M"},
		map[string]any{"time": 1700000120.0},
	})

	pts := Points(s, "temp")
	require.Len(t, pts, 3)
	require.NotNil(t, pts[0].Value)
	assert.Equal(t, 21.5, *pts[0].Value)
	assert.Equal(t, "2023-11-14 22:13Z", pts[0].Label)
	assert.Nil(t, pts[1].Value)
	assert.Nil(t, pts[2].Value)
	assert.True(t, HasValues(pts))

	assert.False(t, HasValues(Points(s, "pressure")))
	assert.Empty(t, Points(Series{}, "temp"))
}

func TestDayBoundsAndSuggestDay(t *testing.T) {
	s := hourly(48) // 2024-02-20 .. 2024-02-21 UTC

	first, last, ok := DayBounds(s, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2024-02-20", first)
	assert.Equal(t, "2024-02-21", last)

	_, _, ok = DayBounds(Series{}, time.UTC)
	assert.False(t, ok)

	assert.True(t, HasDay(s, "2024-02-20", time.UTC))
	assert.False(t, HasDay(s, "2024-02-22", time.UTC))

	today := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-20", SuggestDay(s, today, time.UTC))

	later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-21", SuggestDay(s, later, time.UTC))

	// local days shift with the location
	tokyo := time.FixedZone("JST", 9*3600)
	first, last, _ = DayBounds(s, tokyo)
	assert.Equal(t, "2024-02-20", first)
	assert.Equal(t, "2024-02-22", last)
}

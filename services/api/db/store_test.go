package db

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestSQL(t *testing.T) {
	opts := Options{
		StationsTable:     "wx.stations",
		ObservationsTable: "observations",
		StationColumn:     "station_id",
		MaxRows:           100,
	}
	assert.Equal(t, `SELECT * FROM "wx"."stations"`, stationsSQL(opts))
	assert.Equal(t, `SELECT * FROM "observations" WHERE "station_id" = $1 LIMIT $2`, historicalSQL(opts))

	opts.MaxRows = 0
	opts.ObservationsTable = `bad"name`
	assert.Equal(t, `SELECT * FROM "bad""name" WHERE "station_id" = $1`, historicalSQL(opts))
}

func TestToPayload(t *testing.T) {
	id := uuid.MustParse("6f1c2b8e-4a7d-4c1e-9f0a-1b2c3d4e5f60")
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	records := []map[string]any{{
		"station_id": "KAUS",
		"ts":         ts,
		"temp":       pgtype.Numeric{Int: big.NewInt(215), Exp: -1, Valid: true},
		"missing":    pgtype.Numeric{},
		"count":      int32(7),
		"uid":        [16]byte(id),
		"note":       []byte("ok"),
		"flag":       true,
		"gone":       nil,
	}}

	rows := toPayload(records)
	assert.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "KAUS", row["station_id"])
	assert.Equal(t, "2024-03-01T11:00:00Z", row["ts"])
	assert.InDelta(t, 21.5, row["temp"], 1e-9)
	assert.Nil(t, row["missing"])
	assert.Equal(t, 7.0, row["count"])
	assert.Equal(t, id.String(), row["uid"])
	assert.Equal(t, "ok", row["note"])
	assert.Equal(t, true, row["flag"])
	assert.Nil(t, row["gone"])
}

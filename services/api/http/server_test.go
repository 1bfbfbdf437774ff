package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/asos-explorer/services/api/config"
	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	"github.com/02loveslollipop/asos-explorer/services/api/observability"
	"github.com/02loveslollipop/asos-explorer/services/api/upstream"
)

type stubSource struct {
	stations   any
	historical any
	err        error
}

func (s stubSource) Stations(context.Context) (any, error)           { return s.stations, s.err }
func (s stubSource) Historical(context.Context, string) (any, error) { return s.historical, s.err }

func history() any {
	rows := make([]any, 0, 6)
	base := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	for i := range 6 {
		rows = append(rows, map[string]any{
			"timestamp":   base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			"temperature": float64(i),
			"dewpoint":    -1.0,
		})
	}
	return rows
}

func newTestServer(t *testing.T, src explorer.Source, token string) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	svc := explorer.NewService(src, explorer.Options{
		CatalogTTL: time.Minute,
		Location:   time.UTC,
		Clock:      clockwork.NewFakeClock(),
		Logger:     logger,
	}, metrics)
	cfg := config.Config{Port: 0, BearerToken: token, ShutdownTimeout: time.Second}
	return New(cfg, svc, metrics, logger)
}

func get(t *testing.T, srv *Server, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, stubSource{}, "")
	rec := get(t, srv, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagates(t *testing.T) {
	srv := newTestServer(t, stubSource{}, "")
	rec := get(t, srv, "/healthz", http.Header{"X-Request-Id": {"abc-123"}})

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestListStations(t *testing.T) {
	src := stubSource{stations: []any{
		map[string]any{"station_id": "KBOS", "station_name": "Boston", "latitude": 42.3, "longitude": -71.0},
		map[string]any{"station_id": "KSFO", "station_name": "San Francisco", "latitude": 37.6, "longitude": -122.4},
	}}
	srv := newTestServer(t, src, "")

	rec := get(t, srv, "/api/v1/stations?q=san", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	body := decode(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "KSFO", data[0].(map[string]any)["station_id"])
	assert.EqualValues(t, 1, body["meta"].(map[string]any)["count"])

	rec = get(t, srv, "/api/v1/stations?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStationSeries(t *testing.T) {
	srv := newTestServer(t, stubSource{historical: history()}, "")

	rec := get(t, srv, "/api/v1/stations/KBOS/series", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 6)
	first := data[0].(map[string]any)
	assert.Equal(t, "2024-02-20 00:00Z", first["label"])
	assert.Equal(t, "2024-02-20T00:00:00Z", first["parsed_time"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, "KBOS", meta["station_id"])
	assert.Equal(t, "2024-02-20T05:00:00Z", meta["end"])
}

func TestStationMetrics(t *testing.T) {
	srv := newTestServer(t, stubSource{historical: history()}, "")

	rec := get(t, srv, "/api/v1/stations/KBOS/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, []any{"dewpoint", "temperature"}, data["keys"])
	assert.Equal(t, "temperature", data["default"])
}

func TestStationChart(t *testing.T) {
	srv := newTestServer(t, stubSource{historical: history()}, "")

	rec := get(t, srv, "/api/v1/stations/KBOS/chart?metric=dewpoint&range=24h", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "dewpoint", data["metric"])
	assert.Equal(t, "24h", data["range"])
	assert.Len(t, data["points"], 6)
	assert.Equal(t, true, data["has_data"])
}

func TestStationChartPNG(t *testing.T) {
	srv := newTestServer(t, stubSource{historical: history()}, "")

	rec := get(t, srv, "/api/v1/stations/KBOS/chart.png?range=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = get(t, srv, "/api/v1/stations/KBOS/chart.png?day=2024-03-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "2024-02-20", decode(t, rec)["suggested_day"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		src  stubSource
		path string
		want int
	}{
		{"bad range", stubSource{historical: history()}, "/api/v1/stations/K/chart?range=1y", http.StatusBadRequest},
		{"bad day", stubSource{historical: history()}, "/api/v1/stations/K/chart?day=20240220", http.StatusBadRequest},
		{"unknown metric", stubSource{historical: history()}, "/api/v1/stations/K/chart?metric=nope", http.StatusBadRequest},
		{"rate limited", stubSource{err: &upstream.StatusError{Code: 429}}, "/api/v1/stations", http.StatusTooManyRequests},
		{"unavailable", stubSource{err: &upstream.StatusError{Code: 503}}, "/api/v1/stations/K/series", http.StatusServiceUnavailable},
		{"other status", stubSource{err: &upstream.StatusError{Code: 500}}, "/api/v1/stations/K/metrics", http.StatusBadGateway},
		{"bad json", stubSource{err: &upstream.DecodeError{Err: errors.New("eof")}}, "/api/v1/stations/K/series", http.StatusBadGateway},
		{"timeout", stubSource{err: fmt.Errorf("fetch: %w", context.DeadlineExceeded)}, "/api/v1/stations/K/series", http.StatusGatewayTimeout},
		{"other", stubSource{err: errors.New("conn refused")}, "/api/v1/stations", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.src, "")
			rec := get(t, srv, tt.path, nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(t, stubSource{stations: []any{}}, "secret")

	assert.Equal(t, http.StatusUnauthorized, get(t, srv, "/api/v1/stations", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, srv, "/api/v1/stations", http.Header{"Authorization": {"Bearer nope"}}).Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/api/v1/stations", http.Header{"Authorization": {"Bearer secret"}}).Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, stubSource{}, "")
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stations", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

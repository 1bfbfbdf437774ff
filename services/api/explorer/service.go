// Package explorer ties a raw data source to the normalization pipeline and
// produces the station, series and chart views the dashboard consumes.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/02loveslollipop/asos-explorer/services/api/observability"
	"github.com/02loveslollipop/asos-explorer/services/api/series"
	"github.com/02loveslollipop/asos-explorer/services/api/stations"
)

// ErrUnknownMetric is returned when a requested metric has no numeric values
// in the station's series.
var ErrUnknownMetric = errors.New("unknown metric")

// Source delivers fully received raw payloads.
type Source interface {
	Stations(ctx context.Context) (any, error)
	Historical(ctx context.Context, stationID string) (any, error)
}

// Options tunes a Service.
type Options struct {
	CatalogTTL   time.Duration
	// FetchTimeout bounds a shared source fetch, which outlives any one
	// caller's context. Zero means defaultFetchTimeout.
	FetchTimeout time.Duration
	ScanRows     int
	Location     *time.Location
	Clock        clockwork.Clock
	Logger       *slog.Logger
}

// Service answers dashboard queries. Every call works on freshly fetched or
// freshly derived data; nothing returned is mutated afterwards.
type Service struct {
	source       Source
	catalog      *Cache[[]stations.Station]
	group        singleflight.Group
	normalizer   series.Normalizer
	fetchTimeout time.Duration
	scanRows     int
	loc          *time.Location
	clock        clockwork.Clock
	logger       *slog.Logger
	metrics      *observability.Metrics
}

const (
	catalogKey          = "stations"
	defaultFetchTimeout = 60 * time.Second
)

func NewService(source Source, opts Options, metrics *observability.Metrics) *Service {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &Service{
		source:       source,
		catalog:      NewCache[[]stations.Station](opts.CatalogTTL, opts.Clock),
		normalizer:   series.Normalizer{Location: opts.Location},
		fetchTimeout: opts.FetchTimeout,
		scanRows:     opts.ScanRows,
		loc:          opts.Location,
		clock:        opts.Clock,
		logger:       opts.Logger,
		metrics:      metrics,
	}
}

// Location is the zone used for calendar days.
func (s *Service) Location() *time.Location { return s.loc }

// Stations returns the catalog entries matching query, at most limit of them
// when limit > 0.
func (s *Service) Stations(ctx context.Context, query string, limit int) ([]stations.Station, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return stations.Search(catalog, query, limit), nil
}

func (s *Service) loadCatalog(ctx context.Context) ([]stations.Station, error) {
	if cached, ok := s.catalog.Get(catalogKey); ok {
		s.metrics.CatalogCache.WithLabelValues("hit").Inc()
		return cached, nil
	}
	s.metrics.CatalogCache.WithLabelValues("miss").Inc()

	v, err, _ := s.coalesce(ctx, catalogKey, func(ctx context.Context) (any, error) {
		raw, err := s.source.Stations(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stations: %w", err)
		}
		catalog := stations.BuildCatalog(raw)
		s.catalog.Set(catalogKey, catalog)
		s.metrics.CatalogStations.Set(float64(len(catalog)))
		s.logger.Info("station catalog built", "stations", len(catalog))
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]stations.Station), nil
}

// coalesce runs fn once per key for all concurrent callers. fn gets a context
// detached from the caller that started it, so one caller giving up does not
// fail the others; each caller still returns as soon as its own ctx is done.
func (s *Service) coalesce(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error, bool) {
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return fn(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-ch:
		return res.Val, res.Err, res.Shared
	}
}

// Series fetches and normalizes the history of one station. Concurrent calls
// for the same station share a single upstream fetch; each gets its own slice
// and the observation fields are never written after normalization.
func (s *Service) Series(ctx context.Context, stationID string) (series.Series, error) {
	v, err, shared := s.coalesce(ctx, "series:"+stationID, func(ctx context.Context) (any, error) {
		raw, err := s.source.Historical(ctx, stationID)
		if err != nil {
			return nil, fmt.Errorf("load history for %s: %w", stationID, err)
		}
		out, rep := s.normalizer.NormalizeReport(raw)
		s.metrics.SeriesRowsKept.Observe(float64(rep.Kept))
		s.metrics.SeriesRowsDropped.Add(float64(rep.Dropped()))
		s.logger.Debug("series normalized",
			"station", stationID,
			"time_key", rep.TimeKey,
			"rows", rep.Input,
			"kept", rep.Kept,
		)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		return slices.Clone(v.(series.Series)), nil
	}
	return v.(series.Series), nil
}

// MetricsView lists a station's chartable fields.
type MetricsView struct {
	StationID string              `json:"station_id"`
	Rows      int                 `json:"rows"`
	Scanned   int                 `json:"scanned"`
	Keys      []string            `json:"keys"`
	Stats     []series.MetricStat `json:"stats"`
	Default   string              `json:"default"`
}

// Metrics discovers the numeric fields of a station's series.
func (s *Service) Metrics(ctx context.Context, stationID string) (MetricsView, error) {
	ser, err := s.Series(ctx, stationID)
	if err != nil {
		return MetricsView{}, err
	}
	d := series.DiscoverMetrics(ser, s.scanRows)
	return MetricsView{
		StationID: stationID,
		Rows:      len(ser),
		Scanned:   d.Scanned,
		Keys:      d.Keys,
		Stats:     d.Stats(),
		Default:   series.DefaultMetric(d.Keys),
	}, nil
}

// ChartRequest selects what to plot. Metric empty means the default metric;
// Day, when set, overrides Range.
type ChartRequest struct {
	StationID string
	Metric    string
	Range     series.Range
	Day       string
}

// ChartView is a plotted metric for one station and selection.
type ChartView struct {
	StationID    string         `json:"station_id"`
	Metric       string         `json:"metric"`
	Metrics      []string       `json:"metrics"`
	Range        series.Range   `json:"range"`
	Day          string         `json:"day,omitempty"`
	FirstDay     string         `json:"first_day,omitempty"`
	LastDay      string         `json:"last_day,omitempty"`
	TotalRows    int            `json:"total_rows"`
	Points       []series.Point `json:"points"`
	HasData      bool           `json:"has_data"`
	SuggestedDay string         `json:"suggested_day,omitempty"`
}

// Chart runs the full pipeline for one request: normalize, discover, pick the
// metric, filter, project to points.
func (s *Service) Chart(ctx context.Context, req ChartRequest) (ChartView, error) {
	sel := series.Selection{Range: req.Range}
	if sel.Range == "" {
		sel.Range = series.RangeAll
	}
	if req.Day != "" {
		day, err := series.ParseDay(req.Day, s.loc)
		if err != nil {
			return ChartView{}, err
		}
		sel.Day = &day
	}

	ser, err := s.Series(ctx, req.StationID)
	if err != nil {
		return ChartView{}, err
	}

	d := series.DiscoverMetrics(ser, s.scanRows)
	metric := req.Metric
	if metric == "" {
		metric = series.DefaultMetric(d.Keys)
	} else if !d.Has(metric) {
		return ChartView{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	view := ChartView{
		StationID: req.StationID,
		Metric:    metric,
		Metrics:   d.Keys,
		Range:     sel.Range,
		Day:       req.Day,
		TotalRows: len(ser),
		Points:    []series.Point{},
	}
	view.FirstDay, view.LastDay, _ = series.DayBounds(ser, s.loc)

	if metric == "" {
		return view, nil
	}

	view.Points = series.Points(series.Select(ser, sel), metric)
	view.HasData = series.HasValues(view.Points)
	if !view.HasData {
		view.SuggestedDay = series.SuggestDay(ser, s.clock.Now(), s.loc)
	}
	return view, nil
}

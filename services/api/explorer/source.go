package explorer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/02loveslollipop/asos-explorer/services/api/config"
	"github.com/02loveslollipop/asos-explorer/services/api/db"
	"github.com/02loveslollipop/asos-explorer/services/api/observability"
	"github.com/02loveslollipop/asos-explorer/services/api/upstream"
)

// OpenSource builds the raw data source selected by cfg.Source. The returned
// func releases it.
func OpenSource(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (Source, func(), error) {
	switch cfg.Source {
	case config.SourcePostgres:
		store, err := db.New(ctx, cfg.DatabaseURL, db.Options{
			StationsTable:     cfg.StationsTable,
			ObservationsTable: cfg.ObservationsTable,
			StationColumn:     cfg.StationColumn,
			MaxRows:           cfg.MaxRows,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres source", "stations_table", cfg.StationsTable, "observations_table", cfg.ObservationsTable)
		return store, store.Close, nil
	case config.SourceHTTP, "":
		client := upstream.NewClient(cfg.UpstreamBaseURL, upstream.Options{
			Timeout:   cfg.UpstreamTimeout,
			Tries:     cfg.UpstreamRetries,
			BaseDelay: cfg.UpstreamBackoff,
			Logger:    logger,
		}, metrics)
		logger.Info("using http source", "base_url", cfg.UpstreamBaseURL)
		return client, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/asos-explorer/services/api/config"
	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	httpserver "github.com/02loveslollipop/asos-explorer/services/api/http"
	"github.com/02loveslollipop/asos-explorer/services/api/logging"
	"github.com/02loveslollipop/asos-explorer/services/api/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(cfg, "asos-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics()

	source, closeSource, err := explorer.OpenSource(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("source init failed", "err", err)
		os.Exit(1)
	}
	defer closeSource()

	svc := explorer.NewService(source, explorer.Options{
		CatalogTTL: cfg.StationsCacheTTL,
		ScanRows:   cfg.MetricScanRows,
		Location:   cfg.Location,
		Logger:     logger,
	}, metrics)

	srv := httpserver.New(cfg, svc, metrics, logger)
	logger.Info("REST API listening", "addr", cfg.ListenAddr(), "source", cfg.Source)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

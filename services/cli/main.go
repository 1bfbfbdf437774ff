package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/asos-explorer/services/api/config"
	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	"github.com/02loveslollipop/asos-explorer/services/api/logging"
	"github.com/02loveslollipop/asos-explorer/services/api/observability"
)

type appKey struct{}

// app carries the explorer the subcommands query.
type app struct {
	cfg   config.Config
	svc   *explorer.Service
	close func()
}

var rootCmd = &cobra.Command{
	Use:   "asosctl",
	Short: "asosctl - ASOS station history explorer",
	Long: `asosctl queries the station catalog and observation history through
the same pipeline as the explorer API: search stations, summarize a
station's series, or render a metric chart to PNG.`,
	SilenceUsage:      true,
	PersistentPreRunE: openApp,
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if a, ok := cmd.Context().Value(appKey{}).(*app); ok && a.close != nil {
			a.close()
		}
	},
}

// openApp loads config and opens the source unless a test already put an
// app in the context.
func openApp(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Context().Value(appKey{}).(*app); ok {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg, "asosctl")
	metrics := observability.NewUnregisteredMetrics()

	source, closeSource, err := explorer.OpenSource(cmd.Context(), cfg, logger, metrics)
	if err != nil {
		return err
	}
	svc := explorer.NewService(source, explorer.Options{
		ScanRows: cfg.MetricScanRows,
		Location: cfg.Location,
		Logger:   logger,
	}, metrics)

	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{cfg: cfg, svc: svc, close: closeSource}))
	return nil
}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/asos-explorer/services/api/series"
)

var seriesCmd = &cobra.Command{
	Use:   "series <station>",
	Short: "Summarize a station's observation history",
	Long:  `Fetch and normalize a station's history, then print its span and metrics.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	out := cmd.OutOrStdout()
	stationID := args[0]

	ser, err := a.svc.Series(cmd.Context(), stationID)
	if err != nil {
		return fmt.Errorf("failed to load series for %s: %w", stationID, err)
	}
	d := series.DiscoverMetrics(ser, a.cfg.MetricScanRows)
	stats := d.Stats()

	fmt.Fprintf(out, "Station: %s\n", stationID)
	fmt.Fprintf(out, "Rows:    %d\n", len(ser))
	if start, ok := ser.Start(); ok {
		end, _ := ser.End()
		fmt.Fprintf(out, "Span:    %s .. %s\n", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No numeric metrics.")
		return nil
	}

	fmt.Fprintf(out, "Default: %s\n\n", series.DefaultMetric(d.Keys))
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "%-24s %7s %7s\n", "METRIC", "ROWS", "COVER")
	fmt.Fprintln(out, strings.Repeat("-", 40))
	for _, st := range stats {
		fmt.Fprintf(out, "%-24s %7d %6.1f%%\n", st.Key, st.Count, st.Coverage*100)
	}
	return nil
}

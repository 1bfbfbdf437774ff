package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/asos-explorer/services/api/chart"
	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	"github.com/02loveslollipop/asos-explorer/services/api/series"
)

var (
	chartMetric string
	chartRange  string
	chartDay    string
	chartOut    string
)

var chartCmd = &cobra.Command{
	Use:   "chart <station>",
	Short: "Render a station metric to PNG",
	Long: `Render one metric of a station's history as a PNG line chart.
--day (YYYY-MM-DD, local to DISPLAY_TZ) overrides --range.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartMetric, "metric", "", "metric to plot (default: preferred discovered metric)")
	chartCmd.Flags().StringVar(&chartRange, "range", string(series.RangeAll), "window: 24h, 3d, 7d or all")
	chartCmd.Flags().StringVar(&chartDay, "day", "", "single local day, YYYY-MM-DD")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "chart.png", "output file")
}

func runChart(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	out := cmd.OutOrStdout()

	r, err := series.ParseRange(chartRange)
	if err != nil {
		return err
	}
	view, err := a.svc.Chart(cmd.Context(), explorer.ChartRequest{
		StationID: args[0],
		Metric:    chartMetric,
		Range:     r,
		Day:       chartDay,
	})
	if err != nil {
		return err
	}
	if view.Metric == "" {
		return fmt.Errorf("station %s has no numeric metrics", args[0])
	}

	var buf bytes.Buffer
	err = chart.RenderPNG(&buf, view.Metric, view.Points, chart.Options{
		Title:    view.StationID + " " + view.Metric,
		Location: a.cfg.Location,
	})
	if errors.Is(err, chart.ErrNotEnoughPoints) && view.SuggestedDay != "" {
		return fmt.Errorf("%w; try --day %s", err, view.SuggestedDay)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}

	fmt.Fprintf(out, "✓ Wrote %s (%s, %d points)\n", chartOut, view.Metric, len(view.Points))
	return nil
}

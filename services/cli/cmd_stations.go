package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	stationsQuery string
	stationsLimit int
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Search the station catalog",
	Long:  `List catalog stations whose name, id or ICAO code contains --q.`,
	Args:  cobra.NoArgs,
	RunE:  runStations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
	stationsCmd.Flags().StringVarP(&stationsQuery, "q", "q", "", "case-insensitive search text")
	stationsCmd.Flags().IntVar(&stationsLimit, "limit", 25, "maximum stations to list (0 for all)")
}

func runStations(cmd *cobra.Command, _ []string) error {
	a := appFrom(cmd)
	out := cmd.OutOrStdout()

	list, err := a.svc.Stations(cmd.Context(), stationsQuery, stationsLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch stations: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No stations found.")
		return nil
	}

	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "%-8s %-40s %9s %10s\n", "ID", "NAME", "LAT", "LON")
	fmt.Fprintln(out, strings.Repeat("=", 72))
	for _, s := range list {
		fmt.Fprintf(out, "%-8s %-40s %9.4f %10.4f\n", s.ID, truncate(s.Name, 40), s.Lat, s.Lon)
	}
	fmt.Fprintf(out, "\n%d station(s)\n", len(list))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

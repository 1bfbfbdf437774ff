// Package chart renders metric points as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/02loveslollipop/asos-explorer/services/api/series"
)

// ErrNotEnoughPoints is returned when the points cannot span a chart: fewer
// than two values, or all of them at the same instant.
var ErrNotEnoughPoints = errors.New("not enough points to chart")

const (
	defaultWidth  = 1100
	defaultHeight = 520
)

// Options controls the chart's frame.
type Options struct {
	Title    string
	Width    int
	Height   int
	Location *time.Location
}

var lineStyle = gochart.Style{
	StrokeColor: drawing.Color{R: 51, G: 102, B: 204, A: 255},
	StrokeWidth: 2,
	DotColor:    drawing.Color{R: 51, G: 102, B: 204, A: 255},
	DotWidth:    2,
}

var gridStyle = gochart.Style{
	StrokeColor:     drawing.Color{R: 200, G: 200, B: 200, A: 255},
	StrokeWidth:     1,
	StrokeDashArray: []float64{2, 3},
}

// RenderPNG draws metric over time into w. Points without a value break the
// line rather than being bridged.
func RenderPNG(w io.Writer, metric string, points []series.Point, opts Options) error {
	segments := splitSegments(points)

	var (
		count      int
		minT, maxT time.Time
		minY, maxY = math.Inf(1), math.Inf(-1)
	)
	for _, seg := range segments {
		for i, t := range seg.XValues {
			if count == 0 || t.Before(minT) {
				minT = t
			}
			if count == 0 || t.After(maxT) {
				maxT = t
			}
			minY = math.Min(minY, seg.YValues[i])
			maxY = math.Max(maxY, seg.YValues[i])
			count++
		}
	}
	if count < 2 || !maxT.After(minT) {
		return ErrNotEnoughPoints
	}
	if minY == maxY {
		pad := math.Max(math.Abs(minY)*0.05, 1)
		minY, maxY = minY-pad, maxY+pad
	}

	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	title := opts.Title
	if title == "" {
		title = metric
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		TitleStyle: gochart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 70, Right: 20, Bottom: 50},
		},
		XAxis: gochart.XAxis{
			Name:           "Time (" + loc.String() + ")",
			Style:          gochart.Style{FontSize: 11},
			GridMajorStyle: gridStyle,
			ValueFormatter: timeFormatter(loc, maxT.Sub(minT)),
			Range: &gochart.ContinuousRange{
				Min: gochart.TimeToFloat64(minT),
				Max: gochart.TimeToFloat64(maxT),
			},
		},
		YAxis: gochart.YAxis{
			Name:           metric,
			Style:          gochart.Style{FontSize: 11},
			GridMajorStyle: gridStyle,
			Range:          &gochart.ContinuousRange{Min: minY, Max: maxY},
		},
	}
	for _, seg := range segments {
		graph.Series = append(graph.Series, seg)
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", metric, err)
	}
	return nil
}

// splitSegments groups consecutive valued points into separate line series.
func splitSegments(points []series.Point) []gochart.TimeSeries {
	var (
		out []gochart.TimeSeries
		cur gochart.TimeSeries
	)
	flush := func() {
		if len(cur.XValues) > 0 {
			out = append(out, cur)
		}
		cur = gochart.TimeSeries{Style: lineStyle}
	}
	flush()
	for _, p := range points {
		if p.Value == nil {
			flush()
			continue
		}
		cur.XValues = append(cur.XValues, p.Time)
		cur.YValues = append(cur.YValues, *p.Value)
	}
	flush()
	return out
}

func timeFormatter(loc *time.Location, span time.Duration) gochart.ValueFormatter {
	layout := "Jan 02 15:04"
	if span > 14*24*time.Hour {
		layout = "2006-01-02"
	}
	return func(v any) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		return gochart.TimeFromFloat64(f).In(loc).Format(layout)
	}
}

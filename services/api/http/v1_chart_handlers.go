package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/asos-explorer/services/api/chart"
	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	"github.com/02loveslollipop/asos-explorer/services/api/series"
)

func chartRequest(c *gin.Context) (explorer.ChartRequest, error) {
	r, err := series.ParseRange(c.Query("range"))
	if err != nil {
		return explorer.ChartRequest{}, err
	}
	return explorer.ChartRequest{
		StationID: c.Param("id"),
		Metric:    c.Query("metric"),
		Range:     r,
		Day:       c.Query("day"),
	}, nil
}

// handleV1StationChart returns chart-ready points for a metric
// GET /api/v1/stations/:id/chart?metric=&range=&day=
func (s *Server) handleV1StationChart(c *gin.Context) {
	req, err := chartRequest(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	view, err := s.explorer.Chart(ctx, req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.metrics.ChartsRendered.WithLabelValues("json").Inc()
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// handleV1StationChartPNG renders the same selection as an image
// GET /api/v1/stations/:id/chart.png?metric=&range=&day=
func (s *Server) handleV1StationChartPNG(c *gin.Context) {
	req, err := chartRequest(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	view, err := s.explorer.Chart(ctx, req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	err = chart.RenderPNG(&buf, view.Metric, view.Points, chart.Options{
		Title:    view.StationID + " " + view.Metric,
		Location: s.explorer.Location(),
	})
	if errors.Is(err, chart.ErrNotEnoughPoints) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         err.Error(),
			"suggested_day": view.SuggestedDay,
		})
		return
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.metrics.ChartsRendered.WithLabelValues("png").Inc()
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

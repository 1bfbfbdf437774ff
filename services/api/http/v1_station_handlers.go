package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultStationLimit = 50
	maxStationLimit     = 1000
	fetchTimeout        = 45 * time.Second
)

// handleV1ListStations searches the station catalog
// GET /api/v1/stations?q=&limit=
func (s *Server) handleV1ListStations(c *gin.Context) {
	limit := defaultStationLimit
	if l := c.Query("limit"); l != "" {
		val, err := strconv.Atoi(l)
		if err != nil || val <= 0 || val > maxStationLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = val
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	list, err := s.explorer.Stations(ctx, c.Query("q"), limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"meta": gin.H{
			"count": len(list),
			"query": c.Query("q"),
		},
	})
}

// handleV1StationSeries returns the normalized history of one station
// GET /api/v1/stations/:id/series
func (s *Server) handleV1StationSeries(c *gin.Context) {
	stationID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	ser, err := s.explorer.Series(ctx, stationID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	meta := gin.H{
		"station_id": stationID,
		"count":      len(ser),
	}
	if start, ok := ser.Start(); ok {
		end, _ := ser.End()
		meta["start"] = start.UTC().Format(time.RFC3339)
		meta["end"] = end.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{"data": ser, "meta": meta})
}

// handleV1StationMetrics lists the chartable fields of one station
// GET /api/v1/stations/:id/metrics
func (s *Server) handleV1StationMetrics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	view, err := s.explorer.Metrics(ctx, c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

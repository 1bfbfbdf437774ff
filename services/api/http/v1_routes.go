package http

// registerV1Routes sets up /api/v1. Bearer auth, when configured, guards only
// this group so probes and scrapes stay open.
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	if s.cfg.BearerToken != "" {
		v1.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}

	stations := v1.Group("/stations")
	{
		stations.GET("", s.handleV1ListStations)
		stations.GET("/:id/series", s.handleV1StationSeries)
		stations.GET("/:id/metrics", s.handleV1StationMetrics)
		stations.GET("/:id/chart", s.handleV1StationChart)
		stations.GET("/:id/chart.png", s.handleV1StationChartPNG)
	}
}

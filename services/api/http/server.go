package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/02loveslollipop/asos-explorer/services/api/config"
	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	"github.com/02loveslollipop/asos-explorer/services/api/observability"
)

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg      config.Config
	explorer *explorer.Service
	metrics  *observability.Metrics
	logger   *slog.Logger
	engine   *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, svc *explorer.Service, metrics *observability.Metrics, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(requestLogMiddleware(logger))
	engine.Use(corsMiddleware())

	server := &Server{cfg: cfg, explorer: svc, metrics: metrics, logger: logger, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.registerV1Routes()
}

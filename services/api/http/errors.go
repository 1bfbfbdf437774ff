package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/asos-explorer/services/api/explorer"
	"github.com/02loveslollipop/asos-explorer/services/api/series"
	"github.com/02loveslollipop/asos-explorer/services/api/upstream"
)

// statusFor maps service and upstream failures onto response codes.
func statusFor(err error) int {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, series.ErrUnknownRange),
		errors.Is(err, series.ErrInvalidDay),
		errors.Is(err, explorer.ErrUnknownMetric):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, upstream.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, upstream.ErrBadJSON), errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", c.FullPath(),
			"request_id", c.GetString(ctxRequestID),
			"err", err,
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// Package upstream fetches station listings and historical observations from
// the remote weather API.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/02loveslollipop/asos-explorer/services/api/observability"
)

const (
	resourceStations   = "stations"
	resourceHistorical = "historical"
)

// Options tunes a Client. Zero values fall back to the defaults.
type Options struct {
	Timeout   time.Duration
	Tries     int
	BaseDelay time.Duration
	Clock     clockwork.Clock
	Logger    *slog.Logger
}

// Client calls the upstream API with bounded retries and jittered
// exponential backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tries      int
	baseDelay  time.Duration
	clock      clockwork.Clock
	jitter     func() float64
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts Options, metrics *observability.Metrics) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tries:      3,
		baseDelay:  400 * time.Millisecond,
		clock:      clockwork.NewRealClock(),
		jitter:     func() float64 { return 0.8 + rand.Float64()*0.4 },
		logger:     slog.Default(),
		metrics:    metrics,
	}
	if opts.Timeout > 0 {
		c.httpClient.Timeout = opts.Timeout
	}
	if opts.Tries > 0 {
		c.tries = opts.Tries
	}
	if opts.BaseDelay > 0 {
		c.baseDelay = opts.BaseDelay
	}
	if opts.Clock != nil {
		c.clock = opts.Clock
	}
	if opts.Logger != nil {
		c.logger = opts.Logger
	}
	return c
}

// Stations fetches the raw station listing.
func (c *Client) Stations(ctx context.Context) (any, error) {
	return c.fetchJSON(ctx, resourceStations, "/stations")
}

// Historical fetches the raw observation history for one station.
func (c *Client) Historical(ctx context.Context, stationID string) (any, error) {
	q := url.Values{"station": {stationID}}
	return c.fetchJSON(ctx, resourceHistorical, "/historical_weather?"+q.Encode())
}

func (c *Client) fetchJSON(ctx context.Context, resource, path string) (any, error) {
	var lastErr error
	for attempt := 0; attempt < c.tries; attempt++ {
		start := c.clock.Now()
		v, err := c.do(ctx, path)
		c.metrics.UpstreamDuration.WithLabelValues(resource).Observe(c.clock.Since(start).Seconds())
		c.metrics.UpstreamRequests.WithLabelValues(resource, outcome(err)).Inc()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == c.tries-1 {
			break
		}

		delay := c.backoff(attempt)
		c.logger.Warn("upstream request failed, retrying",
			"resource", resource,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)
		c.metrics.UpstreamRetries.WithLabelValues(resource).Inc()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", resource, ctx.Err())
		case <-c.clock.After(delay):
		}
	}
	return nil, fmt.Errorf("%s: %w", resource, lastErr)
}

func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.baseDelay) * math.Pow(2, float64(attempt)) * c.jitter()
	return time.Duration(math.Round(d))
}

func (c *Client) do(ctx context.Context, path string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}
	return payload, nil
}

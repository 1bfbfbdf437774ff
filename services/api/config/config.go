package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Raw data sources the explorer can read from.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

const (
	defaultUpstreamBaseURL = "https://sfc.windbornesystems.com"
	defaultPort            = 8080
)

// Config holds environment-driven settings for the explorer API and CLI.
type Config struct {
	Port            int
	Source          string
	BearerToken     string
	ShutdownTimeout time.Duration

	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	UpstreamRetries int
	UpstreamBackoff time.Duration

	DatabaseURL       string
	StationsTable     string
	ObservationsTable string
	StationColumn     string
	MaxRows           int

	StationsCacheTTL time.Duration
	MetricScanRows   int
	DisplayTZ        string
	Location         *time.Location

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:              defaultPort,
		Source:            SourceHTTP,
		ShutdownTimeout:   10 * time.Second,
		UpstreamBaseURL:   defaultUpstreamBaseURL,
		UpstreamTimeout:   20 * time.Second,
		UpstreamRetries:   3,
		UpstreamBackoff:   400 * time.Millisecond,
		StationsTable:     "stations",
		ObservationsTable: "observations",
		StationColumn:     "station_id",
		MaxRows:           50000,
		StationsCacheTTL:  time.Minute,
		MetricScanRows:    10000,
		LogLevel:          slog.LevelInfo,
		LogFormat:         "json",
	}

	if portStr := env("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := env("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if src := strings.ToLower(env("SOURCE")); src != "" {
		switch src {
		case SourceHTTP, SourcePostgres:
			cfg.Source = src
		default:
			return cfg, fmt.Errorf("invalid SOURCE %q (allowed: http, postgres)", src)
		}
	}

	if v := env("UPSTREAM_BASE_URL"); v != "" {
		cfg.UpstreamBaseURL = strings.TrimRight(v, "/")
	}

	var err error
	if cfg.UpstreamTimeout, err = duration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout); err != nil {
		return cfg, err
	}
	if cfg.UpstreamBackoff, err = duration("UPSTREAM_BACKOFF", cfg.UpstreamBackoff); err != nil {
		return cfg, err
	}
	if cfg.StationsCacheTTL, err = duration("STATIONS_CACHE_TTL", cfg.StationsCacheTTL); err != nil {
		return cfg, err
	}
	if cfg.ShutdownTimeout, err = duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return cfg, err
	}
	if cfg.UpstreamRetries, err = positiveInt("UPSTREAM_RETRIES", cfg.UpstreamRetries); err != nil {
		return cfg, err
	}
	if cfg.MaxRows, err = positiveInt("DB_MAX_ROWS", cfg.MaxRows); err != nil {
		return cfg, err
	}
	if cfg.MetricScanRows, err = positiveInt("METRIC_SCAN_ROWS", cfg.MetricScanRows); err != nil {
		return cfg, err
	}

	cfg.DatabaseURL = env("DATABASE_URL")
	if cfg.Source == SourcePostgres && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required when SOURCE=postgres")
	}
	if v := env("DB_STATIONS_TABLE"); v != "" {
		cfg.StationsTable = v
	}
	if v := env("DB_OBSERVATIONS_TABLE"); v != "" {
		cfg.ObservationsTable = v
	}
	if v := env("DB_STATION_COLUMN"); v != "" {
		cfg.StationColumn = v
	}

	cfg.Location = time.Local
	if tz := env("DISPLAY_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid DISPLAY_TZ %q: %w", tz, err)
		}
		cfg.DisplayTZ = tz
		cfg.Location = loc
	}

	if v := env("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", v)
		}
	}
	if v := strings.ToLower(env("LOG_FORMAT")); v != "" {
		switch v {
		case "json", "text":
			cfg.LogFormat = v
		default:
			return cfg, fmt.Errorf("invalid LOG_FORMAT %q (allowed: json, text)", v)
		}
	}

	cfg.BearerToken = env("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback, fmt.Errorf("invalid %s: %s", key, v)
	}
	return d, nil
}

func positiveInt(key string, fallback int) (int, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("invalid %s: %s", key, v)
	}
	return n, nil
}

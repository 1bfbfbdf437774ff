package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/02loveslollipop/asos-explorer/services/api/config"
)

// New builds the process logger: colored text through tint when LOG_FORMAT is
// "text", JSON otherwise.
func New(cfg config.Config, appName string) *slog.Logger {
	return newLogger(os.Stdout, cfg, appName)
}

func newLogger(w io.Writer, cfg config.Config, appName string) *slog.Logger {
	if cfg.LogFormat == "text" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With("app", appName, "source", cfg.Source)
}

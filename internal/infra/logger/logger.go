// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Init installs the default logger. Development logs are text, everything
// else is JSON. When sentryDSN is set, errors are also sent to Sentry.
func Init(isDev bool, level, sentryDSN string) *slog.Logger {
	return InitWriter(os.Stdout, isDev, level, sentryDSN)
}

// InitWriter is Init with logs written to w instead of stdout.
func InitWriter(w io.Writer, isDev bool, level, sentryDSN string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level, isDev)}

	var handlers []slog.Handler
	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, opts))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}

	// Optional Sentry handler (sends errors only)
	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

// ParseLevel maps a LOG_LEVEL value to a slog level. An empty or unknown
// value defaults to debug in development and info otherwise.
func ParseLevel(level string, isDev bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if isDev {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Flush waits for buffered Sentry events to be delivered.
func Flush() {
	sentry.Flush(2 * time.Second)
}

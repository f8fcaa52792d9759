// Package logctx carries a zerolog logger through context.Context.
//
// The CLI and the HTTP server attach a configured logger once; the walkers
// extract it with FromContext and fall back to a JSON stderr logger.
//
//	ctx := logctx.WithLogger(ctx, logger)
//	logctx.FromContext(ctx).Debug().Str("path", path).Msg("walking")
package logctx

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

func initDefaultLogger() {
	defaultLoggerOnce.Do(func() {
		defaultLogger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	})
}

// DefaultLogger returns the logger used when the context carries none.
func DefaultLogger() zerolog.Logger {
	initDefaultLogger()

	return defaultLogger
}

// SetDefaultLogger overrides the default logger. Call it during start-up only.
func SetDefaultLogger(l zerolog.Logger) {
	initDefaultLogger()
	defaultLogger = l
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return &logger
		}
	}

	logger := DefaultLogger()

	return &logger
}

// WithStr returns a copy of ctx whose logger has the string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Str(key, value).Logger())
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to zerolog levels.
// Unknown values map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger writing to out at the given level.
// If human is true, it uses the console writer instead of JSON.
func New(out io.Writer, level zerolog.Level, human bool) zerolog.Logger {
	if human {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Package std holds the small pieces of infrastructure shared by the test
// tools: slog based logging carried on a context, standard stream handling,
// an injectable clock, and filesystem helpers.
package std

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps common textual level names to slog.Level. The function is
// case-insensitive and ignores surrounding whitespace. If an unrecognized value
// is provided, slog.LevelWarn is returned so that tools stay quiet on success.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning", "":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LoggerConfig is a minimal, convenient set of options for creating a new
// slog.Logger.
//
// Fields:
//   - Tool: name of the command emitting records, attached to every entry.
//   - Version: application or build version included with each log entry.
//   - Out: destination writer for log output. If nil, os.Stderr is used.
//   - Level: minimum logging level.
//   - JSON: when true, output is JSON; otherwise, human-readable text is used.
type LoggerConfig struct {
	Tool    string
	Version string

	// If Out is nil, stderr is used. Stdout belongs to the tool output.
	Out io.Writer

	Level  slog.Level
	JSON   bool // true => JSON output, false => text
	Source bool
}

// NewLogger creates a configured *slog.Logger.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.Source}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler).With(
		slog.String("tool", cfg.Tool),
		slog.String("version", cfg.Version),
		slog.Int("pid", os.Getpid()),
	)
	return logger
}

// NewDiscardLogger returns a logger whose output is discarded. This is useful for
// tests where log output should be suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

///////////////////////////////////////////////////////////////////////////////
// Context helpers
///////////////////////////////////////////////////////////////////////////////

type loggerCtxKey int

var (
	ctxLoggerKey  loggerCtxKey
	defaultLogger = NewDiscardLogger()
)

// WithLogger returns a copy of ctx that carries the provided logger.
func WithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey, lg)
}

// LoggerFromContext returns the logger stored in ctx. If ctx does not contain
// a logger a discarding logger is returned.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxLoggerKey); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return defaultLogger
}

// PackageLogger returns the context logger tagged with the calling package
// name.
func PackageLogger(ctx context.Context, pkg string) *slog.Logger {
	return LoggerFromContext(ctx).With(slog.String("package", pkg))
}

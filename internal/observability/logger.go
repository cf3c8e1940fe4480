package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerConfig contains configuration for the logger.
type LoggerConfig struct {
	Level     string // debug, info, warn, error
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	// LevelVar, when set, receives the parsed level and lets callers change
	// it after construction.
	LevelVar *slog.LevelVar
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds a slog.Logger whose api_key attributes are masked.
func NewLogger(cfg LoggerConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var leveler slog.Leveler = level
	if cfg.LevelVar != nil {
		cfg.LevelVar.Set(level)
		leveler = cfg.LevelVar
	}

	opts := &slog.HandlerOptions{
		Level:       leveler,
		AddSource:   cfg.AddSource,
		ReplaceAttr: maskSensitiveAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(handler), nil
}

func maskSensitiveAttr(_ []string, a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, MaskAPIKey(a.Value.String()))
	}
	return a
}

// WithRequestID returns logger annotated with the request ID from ctx.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return logger.With("request_id", id)
	}
	return logger
}

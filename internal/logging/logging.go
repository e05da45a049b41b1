// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/transformhub/service-router/internal/config"
)

// LevelFromEnv reads ROUTER_LOG_LEVEL, then LOG_LEVEL. Unset or unparseable
// values yield slog.LevelInfo; the second result reports an unparseable value.
func LevelFromEnv() (slog.Level, string) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	raw := v.GetString("LOG_LEVEL")
	if raw == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	return ParseLevel(raw)
}

// ParseLevel accepts the slog level names, case-insensitively, plus "warning"
func ParseLevel(raw string) (slog.Level, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return slog.LevelInfo, ""
	}
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, ""
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, raw
	}
	return level, ""
}

// NewHandler returns a JSON handler writing to w that stamps records with the
// active trace and span IDs.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return &traceHandler{Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})}
}

// Setup installs the default logger. Logs go to stderr so stdout stays usable
// for command output.
func Setup() {
	level, invalid := LevelFromEnv()
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level)))
	if invalid != "" {
		slog.Warn("Invalid LOG_LEVEL, using INFO", "value", invalid)
	}
}

type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

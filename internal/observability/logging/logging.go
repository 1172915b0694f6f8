// Package logging provides the slog handler used across the service, with
// consistent service metadata on every record and trace correlation fields
// when running on Google Cloud.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// Environment identifies the deployment environment of the service.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module labels a log record with the subsystem that produced it.
type Module string

// ServiceInfo carries the identity attached to every log record.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// HandlerConfig configures the service log handler.
type HandlerConfig struct {
	Environment  Environment
	ServiceInfo  ServiceInfo
	GCPProjectID string
	Level        slog.Leveler
	Module       Module
}

// Handler decorates an underlying slog handler with service metadata and,
// on Google Cloud, trace correlation attributes taken from the request
// context.
type Handler struct {
	inner     slog.Handler
	projectID string
}

// NewHandler builds the service log handler. Dev environments get
// human-readable text output at debug level, everything else structured
// JSON.
func NewHandler(w io.Writer, cfg HandlerConfig) *Handler {
	level := cfg.Level
	if level == nil {
		if cfg.Environment == EnvDev {
			level = slog.LevelDebug
		} else {
			level = slog.LevelInfo
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if cfg.Environment == EnvDev {
		inner = slog.NewTextHandler(w, opts)
	} else {
		if cfg.GCPProjectID != "" {
			opts.ReplaceAttr = gcpReplaceAttr
		}
		inner = slog.NewJSONHandler(w, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", cfg.ServiceInfo.Name),
		slog.String("version", cfg.ServiceInfo.Version),
	}
	if cfg.ServiceInfo.Revision != "" {
		attrs = append(attrs, slog.String("revision", cfg.ServiceInfo.Revision))
	}
	if cfg.Module != "" {
		attrs = append(attrs, slog.String("module", string(cfg.Module)))
	}

	return &Handler{
		inner:     inner.WithAttrs(attrs),
		projectID: cfg.GCPProjectID,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := gcpTraceAttrs(ctx, h.projectID); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}

	return h.inner.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		inner:     h.inner.WithAttrs(attrs),
		projectID: h.projectID,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		inner:     h.inner.WithGroup(name),
		projectID: h.projectID,
	}
}

// gcpReplaceAttr renames the standard slog keys to the fields Cloud Logging
// expects for structured payloads.
func gcpReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.LevelKey:
		a.Key = "severity"
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(gcpSeverity(level))
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	}

	return a
}

func gcpSeverity(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

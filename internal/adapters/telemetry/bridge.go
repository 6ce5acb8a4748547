package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kunlun/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor by logging every ended span at
// debug level.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a bridge writing to logger.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	args := []any{
		"span", s.Name(),
		"duration", s.EndTime().Sub(s.StartTime()).String(),
	}
	if status := s.Status(); status.Code == codes.Error {
		args = append(args, "error", status.Description)
	}
	b.logger.Debug("span ended", args...)
}

// Shutdown is called when the SDK shuts down.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

// ForceFlush exports all ended spans that have not yet been exported.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

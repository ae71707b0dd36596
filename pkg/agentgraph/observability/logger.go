// Package observability provides structured logging, metrics and tracing
// for agentgraph.
//
// Logging uses slog. Metrics and tracing use OpenTelemetry and read the
// global providers, so configure otel.SetMeterProvider and
// otel.SetTracerProvider before constructing recorders. Every feature has a
// no-op form for when it is disabled.
package observability

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Field keys shared by every log line agentgraph emits.
const (
	KeyGraphID    = "graph_id"
	KeyNodeID     = "node_id"
	KeyEdgeID     = "edge_id"
	KeyKind       = "kind"
	KeyOp         = "op"
	KeyDurationMs = "duration_ms"
	KeySizeBytes  = "size_bytes"
)

// EnrichLogger adds the graph ID to a logger.
func EnrichLogger(logger *slog.Logger, graphID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String(KeyGraphID, graphID))
}

// LogRejected logs a gesture the graph declined, such as a self-loop
// connection or an unknown node kind.
func LogRejected(logger *slog.Logger, op string, reason error, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String(KeyOp, op), slog.String("reason", reason.Error()))
	for _, a := range attrs {
		args = append(args, a)
	}
	logger.Debug("mutation rejected", args...)
}

// LogQuarantined logs a node whose kind the catalog does not know.
func LogQuarantined(logger *slog.Logger, nodeID, kind string) {
	if logger == nil {
		return
	}
	logger.Warn("node kind not in catalog, kept with generic schema",
		slog.String(KeyNodeID, nodeID),
		slog.String(KeyKind, kind),
	)
}

// LogDropped logs an element discarded while loading a graph.
func LogDropped(logger *slog.Logger, what, id, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("dropped "+what+" on load",
		slog.String("id", id),
		slog.String("reason", reason),
	)
}

// LogSaveComplete logs a successful save.
func LogSaveComplete(logger *slog.Logger, graphID string, durationMs float64, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Info("graph saved",
		slog.String(KeyGraphID, graphID),
		slog.Float64(KeyDurationMs, durationMs),
		slog.Int(KeySizeBytes, sizeBytes),
	)
}

// LogSaveError logs a failed save. The in-memory graph is unaffected.
func LogSaveError(logger *slog.Logger, graphID string, err error, attempts int) {
	if logger == nil {
		return
	}
	logger.Error("graph save failed",
		slog.String(KeyGraphID, graphID),
		slog.String("error", err.Error()),
		slog.Int("attempts", attempts),
	)
}

// LogLoadComplete logs a successful load.
func LogLoadComplete(logger *slog.Logger, graphID string, durationMs float64, nodes, edges, quarantined int) {
	if logger == nil {
		return
	}
	logger.Info("graph loaded",
		slog.String(KeyGraphID, graphID),
		slog.Float64(KeyDurationMs, durationMs),
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
		slog.Int("quarantined", quarantined),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type loggerKey struct{}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the logger stored in ctx, or a discarding logger.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return DiscardLogger()
}

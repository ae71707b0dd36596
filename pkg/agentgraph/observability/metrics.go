package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/randalmurphal/agentgraph"

// MetricsRecorder records agentgraph metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMutation records a store mutation attempt. Rejected attempts
	// (unknown kind, self-loop, duplicate edge, missing node) have accepted=false.
	RecordMutation(ctx context.Context, op string, accepted bool)

	// RecordSave records a persistence write.
	RecordSave(ctx context.Context, success bool, duration time.Duration, sizeBytes int64)

	// RecordLoad records a persistence read and how many nodes were quarantined.
	RecordLoad(ctx context.Context, success bool, duration time.Duration, quarantined int)
}

type otelMetrics struct {
	mutations   metric.Int64Counter
	rejections  metric.Int64Counter
	saves       metric.Int64Counter
	saveLatency metric.Float64Histogram
	saveSize    metric.Int64Histogram
	loads       metric.Int64Counter
	loadLatency metric.Float64Histogram
	quarantined metric.Int64Counter
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	m := &otelMetrics{}
	var err error

	if m.mutations, err = meter.Int64Counter("agentgraph.store.mutations",
		metric.WithDescription("Number of accepted graph mutations"),
	); err != nil {
		return nil, err
	}
	if m.rejections, err = meter.Int64Counter("agentgraph.store.rejections",
		metric.WithDescription("Number of rejected graph mutations"),
	); err != nil {
		return nil, err
	}
	if m.saves, err = meter.Int64Counter("agentgraph.persist.saves",
		metric.WithDescription("Number of graph saves"),
	); err != nil {
		return nil, err
	}
	if m.saveLatency, err = meter.Float64Histogram("agentgraph.persist.save_latency_ms",
		metric.WithDescription("Graph save latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.saveSize, err = meter.Int64Histogram("agentgraph.persist.save_size_bytes",
		metric.WithDescription("Serialized graph size in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.loads, err = meter.Int64Counter("agentgraph.persist.loads",
		metric.WithDescription("Number of graph loads"),
	); err != nil {
		return nil, err
	}
	if m.loadLatency, err = meter.Float64Histogram("agentgraph.persist.load_latency_ms",
		metric.WithDescription("Graph load latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.quarantined, err = meter.Int64Counter("agentgraph.persist.quarantined_nodes",
		metric.WithDescription("Nodes loaded with a kind missing from the catalog"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel
// meter provider. If instrument creation fails it logs a warning and
// returns NoopMetrics.
func NewMetricsRecorder() MetricsRecorder {
	return NewMetricsRecorderWithProvider(otel.GetMeterProvider())
}

// NewMetricsRecorderWithProvider is NewMetricsRecorder with an explicit provider.
func NewMetricsRecorderWithProvider(provider metric.MeterProvider) MetricsRecorder {
	m, err := newOtelMetrics(provider.Meter(instrumentationName))
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordMutation(ctx context.Context, op string, accepted bool) {
	attrs := metric.WithAttributes(attribute.String(KeyOp, op))
	if accepted {
		m.mutations.Add(ctx, 1, attrs)
		return
	}
	m.rejections.Add(ctx, 1, attrs)
}

func (m *otelMetrics) RecordSave(ctx context.Context, success bool, duration time.Duration, sizeBytes int64) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.saves.Add(ctx, 1, attrs)
	m.saveLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if success {
		m.saveSize.Record(ctx, sizeBytes)
	}
}

func (m *otelMetrics) RecordLoad(ctx context.Context, success bool, duration time.Duration, quarantined int) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.loads.Add(ctx, 1, attrs)
	m.loadLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if quarantined > 0 {
		m.quarantined.Add(ctx, int64(quarantined))
	}
}

package agentgraph

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/event"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/observability"
)

// storeConfig holds Store construction settings.
type storeConfig struct {
	validator ConnectionValidator
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	bus       *event.Bus
	graphID   string
	now       func() time.Time
	newEdgeID func() string
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		validator: DefaultValidator{},
		metrics:   observability.NoopMetrics{},
		now:       time.Now,
		newEdgeID: uuid.NewString,
	}
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

// WithValidator replaces the connection validator.
// Default: DefaultValidator{} (self-loops and duplicates rejected).
func WithValidator(v ConnectionValidator) StoreOption {
	return func(c *storeConfig) {
		if v != nil {
			c.validator = v
		}
	}
}

// AllowParallelEdges accepts repeated edges between the same endpoints and
// handles. Self-loops are still rejected.
func AllowParallelEdges() StoreOption {
	return WithValidator(DefaultValidator{AllowParallel: true})
}

// WithLogger sets the logger for rejected gestures and load warnings.
// Default: nil (silent).
func WithLogger(logger *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}.
func WithMetrics(m observability.MetricsRecorder) StoreOption {
	return func(c *storeConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithEventBus publishes a change event after every committed mutation.
func WithEventBus(bus *event.Bus) StoreOption {
	return func(c *storeConfig) {
		c.bus = bus
	}
}

// WithGraphID tags events and log lines with the graph's persisted ID.
func WithGraphID(id string) StoreOption {
	return func(c *storeConfig) {
		c.graphID = id
	}
}

// WithClock sets the time source used for node IDs.
// Default: time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithEdgeIDGenerator sets how edge IDs are minted.
// Default: random UUIDs.
func WithEdgeIDGenerator(gen func() string) StoreOption {
	return func(c *storeConfig) {
		if gen != nil {
			c.newEdgeID = gen
		}
	}
}

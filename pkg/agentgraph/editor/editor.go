package editor

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/canvas"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/collab"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/event"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/observability"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
)

// Editor is the gesture-level facade over one graph. Gestures are meant to
// be issued from a single goroutine; Save and Load may run on another.
type Editor struct {
	graphID  string
	settings Settings

	store    *agentgraph.Store
	viewport *canvas.Viewport
	catalog  *catalog.Catalog
	schemas  *schema.Registry

	persist   persist.Store
	voices    collab.VoiceCatalog
	documents collab.DocumentCatalog

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	bus     *event.Bus

	storeOpts []agentgraph.StoreOption
	revision  atomic.Int64
}

// Option configures an Editor.
type Option func(*Editor)

// WithCatalog sets the node template catalog.
// Default: catalog.Default()
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Editor) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithSchemas sets the node configuration registry.
// Default: schema.DefaultRegistry()
func WithSchemas(r *schema.Registry) Option {
	return func(e *Editor) {
		if r != nil {
			e.schemas = r
		}
	}
}

// WithPersistence sets where Save writes and Load reads.
func WithPersistence(s persist.Store) Option {
	return func(e *Editor) {
		e.persist = s
	}
}

// WithVoices sets the voice library used by ResolveVoice.
func WithVoices(v collab.VoiceCatalog) Option {
	return func(e *Editor) {
		e.voices = v
	}
}

// WithDocuments sets the document library. When set, documents referenced
// by a fileList field must exist in it.
func WithDocuments(d collab.DocumentCatalog) Option {
	return func(e *Editor) {
		e.documents = d
	}
}

// WithSettings replaces DefaultSettings().
func WithSettings(s Settings) Option {
	return func(e *Editor) {
		e.settings = s
	}
}

// WithLogger sets the logger. The editor and its store log nothing without one.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithMetrics records mutations, saves and loads.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(e *Editor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithSpans traces saves and loads.
func WithSpans(s observability.SpanManager) Option {
	return func(e *Editor) {
		if s != nil {
			e.spans = s
		}
	}
}

// WithEventBus publishes every accepted mutation to bus.
func WithEventBus(bus *event.Bus) Option {
	return func(e *Editor) {
		e.bus = bus
	}
}

// WithStoreOptions passes extra options to the underlying graph store,
// after the editor's own.
func WithStoreOptions(opts ...agentgraph.StoreOption) Option {
	return func(e *Editor) {
		e.storeOpts = append(e.storeOpts, opts...)
	}
}

// New creates an editor for graphID with an empty graph. An empty graphID
// gets a fresh UUID.
func New(graphID string, opts ...Option) *Editor {
	if graphID == "" {
		graphID = uuid.NewString()
	}
	e := &Editor{
		graphID:  graphID,
		settings: DefaultSettings(),
		catalog:  catalog.Default(),
		schemas:  schema.DefaultRegistry(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.viewport = canvas.NewViewport(canvas.WithZoomBounds(e.settings.MinZoom, e.settings.MaxZoom))

	storeOpts := []agentgraph.StoreOption{
		agentgraph.WithGraphID(graphID),
		agentgraph.WithLogger(e.logger),
		agentgraph.WithMetrics(e.metrics),
	}
	if e.bus != nil {
		storeOpts = append(storeOpts, agentgraph.WithEventBus(e.bus))
	}
	if e.settings.AllowParallelEdges {
		storeOpts = append(storeOpts, agentgraph.AllowParallelEdges())
	}
	e.store = agentgraph.NewStore(e.catalog, append(storeOpts, e.storeOpts...)...)
	return e
}

// GraphID returns the ID the graph is saved under.
func (e *Editor) GraphID() string { return e.graphID }

// Store returns the underlying graph store.
func (e *Editor) Store() *agentgraph.Store { return e.store }

// Viewport returns the canvas viewport. Pan and zoom through it.
func (e *Editor) Viewport() *canvas.Viewport { return e.viewport }

// Catalog returns the node template catalog.
func (e *Editor) Catalog() *catalog.Catalog { return e.catalog }

// Settings returns the editor settings.
func (e *Editor) Settings() Settings { return e.settings }

// Revision returns the revision of the last successful Save, or 0.
func (e *Editor) Revision() int64 { return e.revision.Load() }

// Drop places a node of kind where it was dropped on the viewport. The
// point is mapped through the current transform and snapped when a grid is
// set. An unknown kind adds nothing.
func (e *Editor) Drop(kind string, at canvas.Point) (agentgraph.Node, bool) {
	return e.store.AddNode(kind, e.graphPosition(at))
}

// Move drags a node so that it sits under a viewport point.
func (e *Editor) Move(id string, to canvas.Point) bool {
	return e.store.UpdateNodePosition(id, e.graphPosition(to))
}

// Connect draws an edge. Rejected connections return false.
func (e *Editor) Connect(src, tgt string, h agentgraph.Handles) (agentgraph.Edge, bool) {
	return e.store.AddEdge(src, tgt, h)
}

// Delete removes a node and every edge touching it.
func (e *Editor) Delete(id string) bool {
	return e.store.RemoveNode(id)
}

// Disconnect removes one edge.
func (e *Editor) Disconnect(edgeID string) bool {
	return e.store.RemoveEdge(edgeID)
}

func (e *Editor) graphPosition(p canvas.Point) agentgraph.Position {
	g := e.viewport.ToGraphSpace(p)
	if e.settings.SnapGrid > 0 {
		g = canvas.SnapToGrid(g, e.settings.SnapGrid)
	}
	return agentgraph.Position{X: g.X, Y: g.Y}
}

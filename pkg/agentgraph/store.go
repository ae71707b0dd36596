package agentgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/event"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/observability"
)

// Mutation operation names used for metrics and log lines.
const (
	OpAddNode       = "add_node"
	OpRemoveNode    = "remove_node"
	OpAddEdge       = "add_edge"
	OpRemoveEdge    = "remove_edge"
	OpMoveNode      = "move_node"
	OpConfigureNode = "configure_node"
	OpHydrate       = "hydrate"
)

// Catalog is the subset of the template catalog the store needs.
// *catalog.Catalog satisfies it.
type Catalog interface {
	Has(kind string) bool
}

// Store is the single writer of a graph's nodes and edges. Every mutation
// leaves the graph referentially intact: no edge ever points at a missing
// node, even transiently.
//
// Store is safe for concurrent use. Reads return deep copies, so callers
// may hold on to or modify returned values freely.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[string]*Edge
	edgeOrder []string

	catalog Catalog
	cfg     storeConfig
	logger  *slog.Logger
}

// NewStore creates an empty graph whose nodes are stamped from cat.
func NewStore(cat Catalog, opts ...StoreOption) *Store {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger
	if logger != nil && cfg.graphID != "" {
		logger = observability.EnrichLogger(logger, cfg.graphID)
	}

	return &Store{
		nodes:   make(map[string]*Node),
		edges:   make(map[string]*Edge),
		catalog: cat,
		cfg:     cfg,
		logger:  logger,
	}
}

// GraphID returns the ID set with WithGraphID, or "".
func (s *Store) GraphID() string {
	return s.cfg.graphID
}

// AddNode creates a pending node of kind at pos with an empty config.
// An unknown kind or a non-finite position is ignored: nothing changes and
// ok is false.
func (s *Store) AddNode(kind string, pos Position) (Node, bool) {
	if s.catalog == nil || !s.catalog.Has(kind) {
		s.reject(OpAddNode, ErrUnknownKind, slog.String(observability.KeyKind, kind))
		return Node{}, false
	}
	if !pos.Finite() {
		s.reject(OpAddNode, ErrInvalidPosition, slog.String(observability.KeyKind, kind))
		return Node{}, false
	}

	s.mu.Lock()
	n := &Node{
		ID:       s.nextNodeID(kind),
		Kind:     kind,
		Position: pos,
		Config:   map[string]any{},
		Status:   StatusPending,
	}
	s.nodes[n.ID] = n
	s.nodeOrder = append(s.nodeOrder, n.ID)
	out := n.Clone()
	s.mu.Unlock()

	s.accept(OpAddNode)
	s.publish(event.ForNode(event.NodeAdded, out.ID, s.eventOpts()...))
	return out, true
}

// nextNodeID returns <kind>_<unix millis>, suffixed when two nodes of the
// same kind land in the same millisecond. Callers must hold mu.
func (s *Store) nextNodeID(kind string) string {
	base := fmt.Sprintf("%s_%d", kind, s.cfg.now().UnixMilli())
	if _, taken := s.nodes[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s_%d", base, i)
		if _, taken := s.nodes[id]; !taken {
			return id
		}
	}
}

// RemoveNode deletes a node together with every edge incident to it, as one
// operation. It returns false if the node does not exist.
func (s *Store) RemoveNode(id string) bool {
	s.mu.Lock()
	if _, ok := s.nodes[id]; !ok {
		s.mu.Unlock()
		s.reject(OpRemoveNode, ErrNodeNotFound, slog.String(observability.KeyNodeID, id))
		return false
	}

	delete(s.nodes, id)
	s.nodeOrder = removeID(s.nodeOrder, id)

	var removed []string
	kept := s.edgeOrder[:0]
	for _, eid := range s.edgeOrder {
		if s.edges[eid].Touches(id) {
			delete(s.edges, eid)
			removed = append(removed, eid)
			continue
		}
		kept = append(kept, eid)
	}
	s.edgeOrder = kept
	s.mu.Unlock()

	s.accept(OpRemoveNode)
	evt := event.ForNode(event.NodeRemoved, id, s.eventOpts()...)
	evt.Removed = removed
	s.publish(evt)
	return true
}

// AddEdge connects src to tgt if the validator accepts it. A rejected
// connection creates nothing and returns false; the reason is logged at
// Debug level.
func (s *Store) AddEdge(src, tgt string, h Handles) (Edge, bool) {
	s.mu.Lock()
	if err := s.cfg.validator.Validate(storeView{s}, src, tgt, h); err != nil {
		s.mu.Unlock()
		s.reject(OpAddEdge, err,
			slog.String("source", src),
			slog.String("target", tgt),
		)
		return Edge{}, false
	}

	e := &Edge{
		ID:           s.nextEdgeID(),
		SourceNodeID: src,
		TargetNodeID: tgt,
		SourceHandle: h.Source,
		TargetHandle: h.Target,
	}
	stampEdge(e)
	s.edges[e.ID] = e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	out := *e
	s.mu.Unlock()

	s.accept(OpAddEdge)
	s.publish(event.ForEdge(event.EdgeAdded, out.ID, s.eventOpts()...))
	return out, true
}

// nextEdgeID mints an ID not already in use. Callers must hold mu.
func (s *Store) nextEdgeID() string {
	base := s.cfg.newEdgeID()
	if base == "" {
		base = "edge"
	}
	if _, taken := s.edges[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s_%d", base, i)
		if _, taken := s.edges[id]; !taken {
			return id
		}
	}
}

// RemoveEdge deletes a single edge. Nodes are never affected.
func (s *Store) RemoveEdge(id string) bool {
	s.mu.Lock()
	if _, ok := s.edges[id]; !ok {
		s.mu.Unlock()
		s.reject(OpRemoveEdge, ErrEdgeNotFound, slog.String(observability.KeyEdgeID, id))
		return false
	}
	delete(s.edges, id)
	s.edgeOrder = removeID(s.edgeOrder, id)
	s.mu.Unlock()

	s.accept(OpRemoveEdge)
	s.publish(event.ForEdge(event.EdgeRemoved, id, s.eventOpts()...))
	return true
}

// UpdateNodePosition moves a node. Config and status are untouched. A NaN or
// infinite position is ignored and ok is false.
func (s *Store) UpdateNodePosition(id string, pos Position) bool {
	if !pos.Finite() {
		s.reject(OpMoveNode, ErrInvalidPosition, slog.String(observability.KeyNodeID, id))
		return false
	}

	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		s.reject(OpMoveNode, ErrNodeNotFound, slog.String(observability.KeyNodeID, id))
		return false
	}
	n.Position = pos
	s.mu.Unlock()

	s.accept(OpMoveNode)
	s.publish(event.ForNode(event.NodeMoved, id, s.eventOpts()...))
	return true
}

// UpdateNodeConfig shallow-merges patch into the node's config: new keys are
// added, existing keys overwritten, others kept. A pending node becomes
// configured; an active node stays active.
func (s *Store) UpdateNodeConfig(id string, patch map[string]any) bool {
	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		s.reject(OpConfigureNode, ErrNodeNotFound, slog.String(observability.KeyNodeID, id))
		return false
	}
	n.Config = config.Merge(n.Config, patch)
	if n.Status != StatusActive {
		n.Status = StatusConfigured
	}
	s.mu.Unlock()

	s.accept(OpConfigureNode)
	s.publish(event.ForNode(event.NodeConfigured, id, s.eventOpts()...))
	return true
}

// Node returns a copy of the node with id.
func (s *Store) Node(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// HasNode reports whether id is a node in the graph.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodesLocked()
}

func (s *Store) nodesLocked() []Node {
	out := make([]Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgesLocked()
}

func (s *Store) edgesLocked() []Edge {
	out := make([]Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		out = append(out, *s.edges[id])
	}
	return out
}

// Edge returns a copy of the edge with id.
func (s *Store) Edge(id string) (Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// IncidentEdges returns the edges that start or end at nodeID.
func (s *Store) IncidentEdges(nodeID string) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Edge
	for _, id := range s.edgeOrder {
		if e := s.edges[id]; e.Touches(nodeID) {
			out = append(out, *e)
		}
	}
	return out
}

// Snapshot returns nodes and edges read under a single lock, so the pair is
// consistent even while another goroutine mutates the store.
func (s *Store) Snapshot() ([]Node, []Edge) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodesLocked(), s.edgesLocked()
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// storeView exposes the store to validators while mu is held.
type storeView struct{ s *Store }

func (v storeView) HasNode(id string) bool {
	_, ok := v.s.nodes[id]
	return ok
}

func (v storeView) HasEdgeBetween(src, tgt string, h Handles) bool {
	for _, e := range v.s.edges {
		if e.SourceNodeID == src && e.TargetNodeID == tgt && e.Handles() == h {
			return true
		}
	}
	return false
}

func (v storeView) NodeKind(id string) (string, bool) {
	n, ok := v.s.nodes[id]
	if !ok {
		return "", false
	}
	return n.Kind, true
}

func (s *Store) accept(op string) {
	s.cfg.metrics.RecordMutation(context.Background(), op, true)
}

func (s *Store) reject(op string, reason error, attrs ...slog.Attr) {
	s.cfg.metrics.RecordMutation(context.Background(), op, false)
	observability.LogRejected(s.logger, op, reason, attrs...)
}

func (s *Store) eventOpts() []event.Option {
	if s.cfg.graphID == "" {
		return nil
	}
	return []event.Option{event.WithGraphID(s.cfg.graphID)}
}

// publish runs after mu is released so subscribers can read the store.
func (s *Store) publish(evt event.Event) {
	if s.cfg.bus == nil {
		return
	}
	if err := s.cfg.bus.Publish(context.Background(), evt); err != nil && s.logger != nil {
		s.logger.Warn("event subscriber failed",
			slog.String("type", evt.Type),
			slog.String("error", err.Error()),
		)
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

package agentgraph

import (
	"log/slog"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/event"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/observability"
)

// HydrateReport lists what Hydrate kept in quarantine or threw away.
type HydrateReport struct {
	// Quarantined holds IDs of nodes whose kind the catalog does not define.
	// They are kept and edited through the generic schema.
	Quarantined []string `json:"quarantined,omitempty"`

	// DuplicateNodes holds node IDs seen more than once; the first wins.
	DuplicateNodes []string `json:"duplicateNodes,omitempty"`

	// DuplicateEdges holds edge IDs seen more than once; the first wins.
	DuplicateEdges []string `json:"duplicateEdges,omitempty"`

	// DroppedEdges holds IDs of edges with a missing endpoint or that loop
	// back to their own source.
	DroppedEdges []string `json:"droppedEdges,omitempty"`

	// ResetPositions holds IDs of nodes whose NaN or infinite position was
	// replaced by the origin.
	ResetPositions []string `json:"resetPositions,omitempty"`
}

// Clean reports whether the graph loaded without quarantine or drops.
func (r HydrateReport) Clean() bool {
	return len(r.Quarantined) == 0 && len(r.DuplicateNodes) == 0 &&
		len(r.DuplicateEdges) == 0 && len(r.DroppedEdges) == 0 &&
		len(r.ResetPositions) == 0
}

// Hydrate replaces the whole graph with nodes and edges loaded from storage.
//
// Unlike AddNode, Hydrate admits kinds missing from the catalog so that a
// catalog change never destroys an older saved graph. Edges whose endpoints
// are missing are dropped; the store never holds a dangling edge. An empty
// or unknown status is read as pending. Node and edge order is preserved.
func (s *Store) Hydrate(nodes []Node, edges []Edge) HydrateReport {
	var report HydrateReport

	nodeMap := make(map[string]*Node, len(nodes))
	nodeOrder := make([]string, 0, len(nodes))
	for _, in := range nodes {
		if _, dup := nodeMap[in.ID]; dup {
			report.DuplicateNodes = append(report.DuplicateNodes, in.ID)
			observability.LogDropped(s.logger, "node", in.ID, "duplicate id")
			continue
		}
		n := in.Clone()
		if n.Config == nil {
			n.Config = map[string]any{}
		}
		if !n.Status.Valid() {
			n.Status = StatusPending
		}
		if !n.Position.Finite() {
			report.ResetPositions = append(report.ResetPositions, n.ID)
			if s.logger != nil {
				s.logger.Warn("non-finite position reset on load", slog.String(observability.KeyNodeID, n.ID))
			}
			n.Position = Position{}
		}
		if s.catalog == nil || !s.catalog.Has(n.Kind) {
			report.Quarantined = append(report.Quarantined, n.ID)
			observability.LogQuarantined(s.logger, n.ID, n.Kind)
		}
		nodeMap[n.ID] = &n
		nodeOrder = append(nodeOrder, n.ID)
	}

	edgeMap := make(map[string]*Edge, len(edges))
	edgeOrder := make([]string, 0, len(edges))
	for _, in := range edges {
		e := in
		if _, dup := edgeMap[e.ID]; dup {
			report.DuplicateEdges = append(report.DuplicateEdges, e.ID)
			observability.LogDropped(s.logger, "edge", e.ID, "duplicate id")
			continue
		}
		_, srcOK := nodeMap[e.SourceNodeID]
		_, tgtOK := nodeMap[e.TargetNodeID]
		switch {
		case !srcOK || !tgtOK:
			report.DroppedEdges = append(report.DroppedEdges, e.ID)
			observability.LogDropped(s.logger, "edge", e.ID, "dangling endpoint")
			continue
		case e.SourceNodeID == e.TargetNodeID:
			report.DroppedEdges = append(report.DroppedEdges, e.ID)
			observability.LogDropped(s.logger, "edge", e.ID, "self-loop")
			continue
		}
		stampEdge(&e)
		edgeMap[e.ID] = &e
		edgeOrder = append(edgeOrder, e.ID)
	}

	s.mu.Lock()
	s.nodes = nodeMap
	s.nodeOrder = nodeOrder
	s.edges = edgeMap
	s.edgeOrder = edgeOrder
	s.mu.Unlock()

	s.accept(OpHydrate)
	if s.logger != nil {
		s.logger.Debug("graph hydrated",
			slog.Int("nodes", len(nodeOrder)),
			slog.Int("edges", len(edgeOrder)),
			slog.Int("quarantined", len(report.Quarantined)),
		)
	}
	s.publish(event.New(event.GraphHydrated, s.eventOpts()...))
	return report
}

// Quarantined returns the IDs of nodes whose kind the catalog does not
// define, in insertion order.
func (s *Store) Quarantined() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, id := range s.nodeOrder {
		if s.catalog == nil || !s.catalog.Has(s.nodes[id].Kind) {
			out = append(out, id)
		}
	}
	return out
}

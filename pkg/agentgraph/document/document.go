package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
)

// Version is the current document format version.
// Increment when making breaking changes to the document structure.
const Version = 1

// ErrInvalidDocument is returned for a document that cannot be loaded at
// all. Unknown node kinds and dangling edges are not invalid; they are
// handled by quarantine and dropping and show up in the Report.
var ErrInvalidDocument = errors.New("invalid graph document")

// ErrUnsupportedVersion is returned for a document newer than Version.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Document is the persisted form of a graph.
type Document struct {
	Version int       `json:"version"`
	Nodes   []NodeDoc `json:"nodes"`
	Edges   []EdgeDoc `json:"edges"`
}

// NodeDoc is the persisted form of a node.
type NodeDoc struct {
	ID       string              `json:"id" validate:"required"`
	Kind     string              `json:"kind" validate:"required"`
	Position agentgraph.Position `json:"position"`
	Config   map[string]any      `json:"config"`
	Status   string              `json:"status" validate:"omitempty,oneof=pending configured active"`
}

// EdgeDoc is the persisted form of an edge. Rendering hints are not
// stored; they are stamped again on load.
type EdgeDoc struct {
	ID           string `json:"id" validate:"required"`
	SourceNodeID string `json:"sourceNodeId"`
	TargetNodeID string `json:"targetNodeId"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Report lists the nodes quarantined and the records dropped on load.
type Report = agentgraph.HydrateReport

// Serialize dumps the store in insertion order. Configs are deep copies.
func Serialize(s *agentgraph.Store) Document {
	nodes, edges := s.Snapshot()
	return FromGraph(nodes, edges)
}

// FromGraph builds a document from nodes and edges.
func FromGraph(nodes []agentgraph.Node, edges []agentgraph.Edge) Document {
	doc := Document{
		Version: Version,
		Nodes:   make([]NodeDoc, len(nodes)),
		Edges:   make([]EdgeDoc, len(edges)),
	}
	for i, n := range nodes {
		doc.Nodes[i] = NodeDoc{
			ID:       n.ID,
			Kind:     n.Kind,
			Position: n.Position,
			Config:   config.Clone(n.Config),
			Status:   string(n.Status),
		}
	}
	for i, e := range edges {
		doc.Edges[i] = EdgeDoc{
			ID:           e.ID,
			SourceNodeID: e.SourceNodeID,
			TargetNodeID: e.TargetNodeID,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
		}
	}
	return doc
}

// Graph converts the document back to nodes and edges without checking
// it. Use Validate first, or Deserialize which does both.
func (d Document) Graph() ([]agentgraph.Node, []agentgraph.Edge) {
	nodes := make([]agentgraph.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		status := agentgraph.Status(n.Status)
		if n.Status == "" {
			status = agentgraph.StatusPending
		}
		nodes[i] = agentgraph.Node{
			ID:       n.ID,
			Kind:     n.Kind,
			Position: n.Position,
			Config:   config.Clone(n.Config),
			Status:   status,
		}
	}
	edges := make([]agentgraph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = agentgraph.Edge{
			ID:           e.ID,
			SourceNodeID: e.SourceNodeID,
			TargetNodeID: e.TargetNodeID,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
		}
	}
	return nodes, edges
}

// Deserialize validates doc and loads it into a new store.
//
// A node whose kind cat does not define is kept and listed in
// Report.Quarantined. Only a structurally invalid document is an error.
func Deserialize(doc Document, cat agentgraph.Catalog, opts ...agentgraph.StoreOption) (*agentgraph.Store, Report, error) {
	if err := Validate(doc); err != nil {
		return nil, Report{}, err
	}
	s := agentgraph.NewStore(cat, opts...)
	nodes, edges := doc.Graph()
	return s, s.Hydrate(nodes, edges), nil
}

// Load validates doc and replaces the contents of an existing store.
// On error the store is left untouched.
func Load(s *agentgraph.Store, doc Document) (Report, error) {
	if err := Validate(doc); err != nil {
		return Report{}, err
	}
	nodes, edges := doc.Graph()
	return s.Hydrate(nodes, edges), nil
}

// Marshal serializes a document to JSON.
func Marshal(doc Document) ([]byte, error) {
	if doc.Nodes == nil {
		doc.Nodes = []NodeDoc{}
	}
	if doc.Edges == nil {
		doc.Edges = []EdgeDoc{}
	}
	return json.Marshal(doc)
}

// Unmarshal deserializes a document from JSON. The result is not
// validated.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

package event

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the graph store.
const (
	NodeAdded      = "node.added"
	NodeRemoved    = "node.removed"
	NodeMoved      = "node.moved"
	NodeConfigured = "node.configured"
	EdgeAdded      = "edge.added"
	EdgeRemoved    = "edge.removed"
	GraphHydrated  = "graph.hydrated"
)

// Types returns every event type the store emits.
func Types() []string {
	return []string{
		NodeAdded, NodeRemoved, NodeMoved, NodeConfigured,
		EdgeAdded, EdgeRemoved, GraphHydrated,
	}
}

// Event describes one committed change to a graph. Events are values;
// subscribers receive their own copy.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	GraphID   string    `json:"graphId,omitempty"`
	NodeID    string    `json:"nodeId,omitempty"`
	EdgeID    string    `json:"edgeId,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Removed lists the edge IDs deleted by a node.removed cascade.
	Removed []string `json:"removed,omitempty"`
}

// Option configures event creation.
type Option func(*Event)

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) Option {
	return func(e *Event) {
		e.ID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(e *Event) {
		e.Timestamp = t
	}
}

// WithGraphID tags the event with the graph it belongs to.
func WithGraphID(id string) Option {
	return func(e *Event) {
		e.GraphID = id
	}
}

// ForNode creates an event about a node.
func ForNode(eventType, nodeID string, opts ...Option) Event {
	return newEvent(eventType, func(e *Event) { e.NodeID = nodeID }, opts)
}

// ForEdge creates an event about an edge.
func ForEdge(eventType, edgeID string, opts ...Option) Event {
	return newEvent(eventType, func(e *Event) { e.EdgeID = edgeID }, opts)
}

// New creates an event with no subject, such as graph.hydrated.
func New(eventType string, opts ...Option) Event {
	return newEvent(eventType, nil, opts)
}

func newEvent(eventType string, subject func(*Event), opts []Option) Event {
	e := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
	if subject != nil {
		subject(&e)
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e Event) clone() Event {
	if e.Removed != nil {
		e.Removed = append([]string(nil), e.Removed...)
	}
	return e
}

package agentgraph

import (
	"fmt"
	"math"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
)

// Position is a point in graph space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are finite. NaN and infinite
// positions cannot be encoded to JSON and are never stored.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Status tracks how far a node's configuration has progressed.
type Status string

const (
	// StatusPending is the initial status of a dropped node.
	StatusPending Status = "pending"
	// StatusConfigured is set by the first UpdateNodeConfig call.
	StatusConfigured Status = "configured"
	// StatusActive is set outside the editor once the agent is deployed.
	StatusActive Status = "active"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfigured, StatusActive:
		return true
	}
	return false
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Node is one configuration unit on the canvas.
type Node struct {
	ID       string
	Kind     string
	Position Position
	Config   map[string]any
	Status   Status
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.Config = config.Clone(n.Config)
	return n
}

// MarkerArrowClosed is the arrowhead stamped on accepted edges.
const MarkerArrowClosed = "arrowclosed"

// Edge is a directed connection between two nodes.
type Edge struct {
	ID           string
	SourceNodeID string
	TargetNodeID string
	SourceHandle string
	TargetHandle string

	// Animated and Marker are rendering hints stamped when the edge is accepted.
	Animated bool
	Marker   string
}

// Handles names the connection points used on each end of an edge. Empty
// strings mean the node's default handle.
type Handles struct {
	Source string
	Target string
}

// Handles returns the connection points of e.
func (e Edge) Handles() Handles {
	return Handles{Source: e.SourceHandle, Target: e.TargetHandle}
}

// Touches reports whether nodeID is either endpoint of e.
func (e Edge) Touches(nodeID string) bool {
	return e.SourceNodeID == nodeID || e.TargetNodeID == nodeID
}

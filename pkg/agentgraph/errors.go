package agentgraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for connection validation.
var (
	// ErrSelfLoop indicates an edge whose source and target are the same node.
	ErrSelfLoop = errors.New("self-loop not allowed")

	// ErrDuplicateEdge indicates an edge identical to an existing one.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrUnknownEndpoint indicates an edge endpoint that is not in the graph.
	ErrUnknownEndpoint = errors.New("edge endpoint not in graph")
)

// Sentinel errors for node operations.
var (
	// ErrUnknownKind indicates a kind that the catalog does not define.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrNodeNotFound indicates a node ID that is not in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates an edge ID that is not in the graph.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrInvalidPosition indicates a NaN or infinite coordinate.
	ErrInvalidPosition = errors.New("position must be finite")

	// ErrUnencodable indicates a graph that cannot be written to the
	// document format. Retrying the save cannot help.
	ErrUnencodable = errors.New("graph cannot be encoded")

	// ErrInvalidStatus indicates a status string outside pending, configured, active.
	ErrInvalidStatus = errors.New("invalid node status")
)

// ConnectionError describes why a proposed edge was rejected.
type ConnectionError struct {
	// Source is the proposed source node ID.
	Source string
	// Target is the proposed target node ID.
	Target string
	// Err is the underlying reason, one of the connection sentinels.
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s -> %s: %v", e.Source, e.Target, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SaveError wraps a failed save. The in-memory graph is never modified by
// a failed save, so the caller may retry unless the graph itself could not
// be encoded.
type SaveError struct {
	// GraphID is the graph that failed to save.
	GraphID string
	// Attempts is how many times the save was tried.
	Attempts int
	// Err is the last underlying error.
	Err error
}

// Error implements the error interface.
func (e *SaveError) Error() string {
	return fmt.Sprintf("save graph %s failed after %d attempt(s): %v", e.GraphID, e.Attempts, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SaveError) Unwrap() error {
	return e.Err
}

// Retryable reports whether trying the save again can succeed.
func (e *SaveError) Retryable() bool {
	return !errors.Is(e.Err, ErrUnencodable)
}

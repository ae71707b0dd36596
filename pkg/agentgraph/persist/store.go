// Package persist stores serialized graph documents.
//
// Stores are keyed by graph ID and hold one current document per graph.
// Saves are last-writer-wins; every save bumps the graph's revision so
// callers can tell when a document changed underneath them.
package persist

import (
	"context"
	"errors"
	"time"
)

// Store persists graph documents.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the document for a graph, replacing any previous one.
	// The returned Info carries the new revision.
	Save(ctx context.Context, graphID string, data []byte) (Info, error)

	// Load retrieves the current document for a graph.
	// Returns ErrNotFound if the graph has never been saved.
	Load(ctx context.Context, graphID string) ([]byte, error)

	// List returns every stored graph, ordered by graph ID.
	// Returns an empty slice (not error) when nothing is stored.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a graph.
	// Returns nil if the graph doesn't exist.
	Delete(ctx context.Context, graphID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the document.
type Info struct {
	GraphID   string    `json:"graphId"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
	Size      int64     `json:"size"`
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a graph has no stored document.
	ErrNotFound = errors.New("graph not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("graph store closed")
)

package persist

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory graph store for tests and demos.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]storedGraph
	now    func() time.Time
	closed bool
}

type storedGraph struct {
	data      []byte
	revision  int64
	updatedAt time.Time
}

// NewMemoryStore creates a new in-memory graph store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		graphs: make(map[string]storedGraph),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, graphID string, data []byte) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Info{}, ErrStoreClosed
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	g := storedGraph{
		data:      stored,
		revision:  m.graphs[graphID].revision + 1,
		updatedAt: m.now(),
	}
	m.graphs[graphID] = g
	return g.info(graphID), nil
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, graphID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	g, ok := m.graphs[graphID]
	if !ok {
		return nil, ErrNotFound
	}

	result := make([]byte, len(g.data))
	copy(result, g.data)
	return result, nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.graphs))
	for id, g := range m.graphs {
		infos = append(infos, g.info(id))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].GraphID < infos[j].GraphID
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, graphID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.graphs, graphID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.graphs = nil
	return nil
}

// Len returns the number of stored graphs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.graphs)
}

func (g storedGraph) info(graphID string) Info {
	return Info{
		GraphID:   graphID,
		Revision:  g.revision,
		UpdatedAt: g.updatedAt,
		Size:      int64(len(g.data)),
	}
}

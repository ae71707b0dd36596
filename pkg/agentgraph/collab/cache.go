package collab

import (
	"context"
	"sync"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/registry"
)

// CachedVoices memoizes Voice lookups by ID. Listings pass through to the
// underlying catalog uncached. Failed lookups are not cached.
type CachedVoices struct {
	next    VoiceCatalog
	entries *registry.Registry[string, *voiceEntry]
}

type voiceEntry struct {
	mu    sync.Mutex
	done  bool
	voice Voice
}

// NewCachedVoices wraps next.
func NewCachedVoices(next VoiceCatalog) *CachedVoices {
	return &CachedVoices{
		next:    next,
		entries: registry.New[string, *voiceEntry](),
	}
}

// Voices implements VoiceCatalog.
func (c *CachedVoices) Voices(ctx context.Context, page Page) (VoicePage, error) {
	return c.next.Voices(ctx, page)
}

// Voice implements VoiceCatalog. Concurrent lookups of the same ID share
// one call to the underlying catalog.
func (c *CachedVoices) Voice(ctx context.Context, id string) (Voice, error) {
	entry := c.entries.GetOrCreate(id, func() *voiceEntry { return &voiceEntry{} })

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.done {
		return entry.voice, nil
	}

	v, err := c.next.Voice(ctx, id)
	if err != nil {
		return Voice{}, err
	}
	entry.voice = v
	entry.done = true
	return v, nil
}

// Invalidate drops the cached voice for id.
func (c *CachedVoices) Invalidate(id string) {
	c.entries.Delete(id)
}

// Len returns the number of IDs looked up so far.
func (c *CachedVoices) Len() int {
	return c.entries.Len()
}

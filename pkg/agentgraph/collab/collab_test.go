package collab

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVoices(n int) []Voice {
	out := make([]Voice, n)
	for i := range out {
		out[i] = Voice{ID: fmt.Sprintf("v%d", i), Name: fmt.Sprintf("Voice %d", i), Accent: "american"}
	}
	return out
}

func TestStaticVoices_Paging(t *testing.T) {
	lib := NewStaticVoices(sampleVoices(5)...)
	ctx := context.Background()

	tests := []struct {
		page    Page
		ids     []string
		hasMore bool
	}{
		{Page{Number: 1, Size: 2}, []string{"v0", "v1"}, true},
		{Page{Number: 2, Size: 2}, []string{"v2", "v3"}, true},
		{Page{Number: 3, Size: 2}, []string{"v4"}, false},
		{Page{Number: 4, Size: 2}, []string{}, false},
		{Page{Number: 0, Size: 0}, []string{"v0", "v1", "v2", "v3", "v4"}, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d size %d", tt.page.Number, tt.page.Size), func(t *testing.T) {
			got, err := lib.Voices(ctx, tt.page)
			require.NoError(t, err)
			ids := []string{}
			for _, v := range got.Voices {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.hasMore, got.HasMore)
		})
	}
}

func TestStaticVoices_Lookup(t *testing.T) {
	lib := NewStaticVoices(sampleVoices(2)...)

	v, err := lib.Voice(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "Voice 1", v.Name)

	_, err = lib.Voice(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrVoiceNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lib.Voice(ctx, "v1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticDocuments(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	docs := NewStaticDocuments(Document{ID: "d1", Name: "faq.pdf", UploadedAt: at})
	ctx := context.Background()

	d, err := docs.Document(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, at, d.UploadedAt)

	_, err = docs.Document(ctx, "d2")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	docs.Add(Document{ID: "d2", Name: "pricing.pdf"})
	all, err := docs.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "pricing.pdf", all[1].Name)
}

// countingVoices counts lookups and can be told to fail.
type countingVoices struct {
	*StaticVoices
	lookups atomic.Int32
	fail    atomic.Bool
}

func (c *countingVoices) Voice(ctx context.Context, id string) (Voice, error) {
	c.lookups.Add(1)
	if c.fail.Load() {
		return Voice{}, errors.New("voice service unavailable")
	}
	return c.StaticVoices.Voice(ctx, id)
}

func TestCachedVoices(t *testing.T) {
	next := &countingVoices{StaticVoices: NewStaticVoices(sampleVoices(3)...)}
	cache := NewCachedVoices(next)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		v, err := cache.Voice(ctx, "v2")
		require.NoError(t, err)
		assert.Equal(t, "Voice 2", v.Name)
	}
	assert.Equal(t, int32(1), next.lookups.Load())

	cache.Invalidate("v2")
	_, err := cache.Voice(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.lookups.Load())

	page, err := cache.Voices(ctx, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page.Voices, 3)
}

func TestCachedVoices_ErrorsNotCached(t *testing.T) {
	next := &countingVoices{StaticVoices: NewStaticVoices(sampleVoices(1)...)}
	next.fail.Store(true)
	cache := NewCachedVoices(next)
	ctx := context.Background()

	_, err := cache.Voice(ctx, "v0")
	require.Error(t, err)

	next.fail.Store(false)
	v, err := cache.Voice(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, "v0", v.ID)
	assert.Equal(t, int32(2), next.lookups.Load())

	_, err = cache.Voice(ctx, "missing")
	assert.ErrorIs(t, err, ErrVoiceNotFound)
}

func TestCachedVoices_ConcurrentLookupsShareOneCall(t *testing.T) {
	next := &countingVoices{StaticVoices: NewStaticVoices(sampleVoices(1)...)}
	cache := NewCachedVoices(next)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Voice(context.Background(), "v0")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), next.lookups.Load())
	assert.Equal(t, 1, cache.Len())
}

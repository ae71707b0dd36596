package collab

import (
	"context"
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/registry"
)

// StaticVoices is a fixed in-memory voice library.
type StaticVoices struct {
	voices *registry.Registry[string, Voice]
}

// NewStaticVoices builds a library in the given order. A repeated ID
// replaces the earlier voice in place.
func NewStaticVoices(voices ...Voice) *StaticVoices {
	reg := registry.New[string, Voice]()
	for _, v := range voices {
		reg.Register(v.ID, v)
	}
	return &StaticVoices{voices: reg}
}

// Voices implements VoiceCatalog.
func (s *StaticVoices) Voices(ctx context.Context, page Page) (VoicePage, error) {
	if err := ctx.Err(); err != nil {
		return VoicePage{}, err
	}
	all := s.voices.Values()
	start, end := page.bounds(len(all))
	return VoicePage{
		Voices:  append([]Voice{}, all[start:end]...),
		HasMore: end < len(all),
	}, nil
}

// Voice implements VoiceCatalog.
func (s *StaticVoices) Voice(ctx context.Context, id string) (Voice, error) {
	if err := ctx.Err(); err != nil {
		return Voice{}, err
	}
	v, ok := s.voices.Get(id)
	if !ok {
		return Voice{}, fmt.Errorf("%w: %s", ErrVoiceNotFound, id)
	}
	return v, nil
}

// StaticDocuments is a fixed in-memory document list.
type StaticDocuments struct {
	docs *registry.Registry[string, Document]
}

// NewStaticDocuments builds a document list in the given order.
func NewStaticDocuments(docs ...Document) *StaticDocuments {
	reg := registry.New[string, Document]()
	for _, d := range docs {
		reg.Register(d.ID, d)
	}
	return &StaticDocuments{docs: reg}
}

// Documents implements DocumentCatalog.
func (s *StaticDocuments) Documents(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.docs.Values(), nil
}

// Document implements DocumentCatalog.
func (s *StaticDocuments) Document(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	d, ok := s.docs.Get(id)
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return d, nil
}

// Add registers or replaces a document, as after an upload.
func (s *StaticDocuments) Add(d Document) {
	s.docs.Register(d.ID, d)
}

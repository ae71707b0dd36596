// Package collab defines the supporting-data services the editor reads
// from: the voice library behind voice_config nodes and the uploaded
// documents behind knowledge_base nodes.
//
// The editor only reads from these services. Static implementations back
// tests and demos; CachedVoices memoizes a slow remote voice library.
package collab

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for lookups.
var (
	ErrVoiceNotFound    = errors.New("voice not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// Voice is one selectable text-to-speech voice.
type Voice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Age        string `json:"age,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Document is an uploaded file a knowledge node can reference.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Page selects a window of a listing. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// DefaultPageSize is used when Page.Size is not positive.
const DefaultPageSize = 20

func (p Page) bounds(total int) (start, end int) {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	number := max(p.Number, 1)
	start = min((number-1)*size, total)
	end = min(start+size, total)
	return start, end
}

// VoicePage is one page of the voice library.
type VoicePage struct {
	Voices  []Voice `json:"voices"`
	HasMore bool    `json:"hasMore"`
}

// VoiceCatalog lists and resolves voices.
type VoiceCatalog interface {
	Voices(ctx context.Context, page Page) (VoicePage, error)
	Voice(ctx context.Context, id string) (Voice, error)
}

// DocumentCatalog lists and resolves uploaded documents.
type DocumentCatalog interface {
	Documents(ctx context.Context) ([]Document, error)
	Document(ctx context.Context, id string) (Document, error)
}

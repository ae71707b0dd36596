package editor

import "errors"

var (
	// ErrNoPersistence is returned by Save and Load when no persist.Store
	// was configured.
	ErrNoPersistence = errors.New("editor has no persistence store")

	// ErrNoVoiceCatalog is returned by ResolveVoice without a voice catalog.
	ErrNoVoiceCatalog = errors.New("editor has no voice catalog")

	// ErrNotVoiceConfig is returned by ResolveVoice for a node of another kind.
	ErrNotVoiceConfig = errors.New("node is not a voice configuration")

	// ErrNothingToPreview is returned by Preview for kinds without spoken text.
	ErrNothingToPreview = errors.New("node kind has no text to preview")
)

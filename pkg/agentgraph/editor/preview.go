package editor

import (
	"context"
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/collab"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/template"
)

// previewFields names the spoken or instructed text of each kind.
var previewFields = map[string]string{
	catalog.KindPrompt:       "instructions",
	catalog.KindGreeting:     "message",
	catalog.KindQuestion:     "questionText",
	catalog.KindTransferCall: "message",
	catalog.KindEndCall:      "message",
}

// Preview renders a node's text with sample answers substituted. Template
// defaults apply when the node has no text of its own. Variables missing
// from vars are left as written.
func (e *Editor) Preview(id string, vars map[string]any) (string, error) {
	form, ok := e.Inspect(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", agentgraph.ErrNodeNotFound, id)
	}
	field, ok := previewFields[form.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNothingToPreview, form.Kind)
	}
	text, _ := form.Values[field].(string)
	return template.Expand(text, vars), nil
}

// PreviewCondition evaluates a condition node against sample answers.
func (e *Editor) PreviewCondition(id string, vars map[string]any) (bool, error) {
	form, ok := e.Inspect(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", agentgraph.ErrNodeNotFound, id)
	}
	return schema.EvaluateCondition(form.Values, vars)
}

// ResolveVoice looks up the voice chosen on a voice_config node.
func (e *Editor) ResolveVoice(ctx context.Context, id string) (collab.Voice, error) {
	if e.voices == nil {
		return collab.Voice{}, ErrNoVoiceCatalog
	}
	n, ok := e.store.Node(id)
	if !ok {
		return collab.Voice{}, fmt.Errorf("%w: %s", agentgraph.ErrNodeNotFound, id)
	}
	if n.Kind != catalog.KindVoiceConfig {
		return collab.Voice{}, fmt.Errorf("%w: %s is %s", ErrNotVoiceConfig, id, n.Kind)
	}
	voiceID, _ := n.Config["voiceId"].(string)
	if voiceID == "" {
		return collab.Voice{}, &schema.FieldError{Field: "voiceId", Err: schema.ErrRequired}
	}
	return e.voices.Voice(ctx, voiceID)
}

package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/collab"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
)

// Form is what the configuration panel shows for one node.
type Form struct {
	NodeID string
	Kind   string
	Label  string
	Status agentgraph.Status

	// Schema lists the fields to render. For an unknown kind it is the
	// generic schema and the panel edits raw JSON.
	Schema  schema.Schema
	Generic bool

	// Values layers schema defaults, then template defaults, then the
	// node's saved config.
	Values map[string]any

	// Missing names required fields that still need a value.
	Missing []string
}

// Inspect opens the configuration form for a node.
func (e *Editor) Inspect(id string) (Form, bool) {
	n, ok := e.store.Node(id)
	if !ok {
		return Form{}, false
	}

	s := e.schemas.Resolve(n.Kind)
	label := n.Kind
	var templateDefaults map[string]any
	if t, found := e.catalog.Lookup(n.Kind); found {
		label = t.Label
		templateDefaults = t.Defaults
	}

	values := s.FormValues(templateDefaults, n.Config)
	return Form{
		NodeID:  n.ID,
		Kind:    n.Kind,
		Label:   label,
		Status:  n.Status,
		Schema:  s,
		Generic: s.Generic,
		Values:  values,
		Missing: s.Missing(values),
	}, true
}

// Apply saves edited form values into a node. Invalid values return the
// joined field errors and leave the node untouched. Closing the form without
// calling Apply discards the edit.
func (e *Editor) Apply(id string, values map[string]any) error {
	return e.ApplyContext(context.Background(), id, values)
}

// ApplyContext is Apply with a context for the document library lookups.
func (e *Editor) ApplyContext(ctx context.Context, id string, values map[string]any) error {
	n, ok := e.store.Node(id)
	if !ok {
		return fmt.Errorf("%w: %s", agentgraph.ErrNodeNotFound, id)
	}
	s := e.schemas.Resolve(n.Kind)
	patch, err := s.Patch(values)
	if err != nil {
		return err
	}
	return e.commit(ctx, s, id, patch)
}

// ApplyJSON saves a raw JSON object typed into the panel. This is how nodes
// with the generic schema are edited.
func (e *Editor) ApplyJSON(ctx context.Context, id string, raw []byte) error {
	n, ok := e.store.Node(id)
	if !ok {
		return fmt.Errorf("%w: %s", agentgraph.ErrNodeNotFound, id)
	}
	s := e.schemas.Resolve(n.Kind)
	patch, err := s.PatchJSON(raw)
	if err != nil {
		return err
	}
	return e.commit(ctx, s, id, patch)
}

func (e *Editor) commit(ctx context.Context, s schema.Schema, id string, patch map[string]any) error {
	if err := e.checkDocuments(ctx, s, patch); err != nil {
		return err
	}
	if !e.store.UpdateNodeConfig(id, patch) {
		return fmt.Errorf("%w: %s", agentgraph.ErrNodeNotFound, id)
	}
	return nil
}

// checkDocuments confirms every document in a fileList field exists in the
// document library. Without a library any document is accepted.
func (e *Editor) checkDocuments(ctx context.Context, s schema.Schema, patch map[string]any) error {
	if e.documents == nil {
		return nil
	}
	var errs []error
	for _, f := range s.Fields {
		if f.Type != schema.FileList {
			continue
		}
		items, _ := patch[f.Name].([]any)
		for i, item := range items {
			doc, _ := item.(map[string]any)
			docID, _ := doc["id"].(string)
			_, err := e.documents.Document(ctx, docID)
			switch {
			case errors.Is(err, collab.ErrDocumentNotFound):
				errs = append(errs, &schema.FieldError{
					Field:  f.Name,
					Err:    collab.ErrDocumentNotFound,
					Detail: fmt.Sprintf("item %d: %s", i, docID),
				})
			case err != nil:
				return fmt.Errorf("look up document %s: %w", docID, err)
			}
		}
	}
	return errors.Join(errs...)
}

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
)

// Schema is the editor contract for one node kind: its fields, their
// validation and their defaults. A Generic schema has no fields and edits
// the raw config map.
type Schema struct {
	Kind    string  `json:"kind"`
	Fields  []Field `json:"fields"`
	Generic bool    `json:"generic,omitempty"`
}

// New builds a typed schema, checking field names, types and patterns.
func New(kind string, fields ...Field) (Schema, error) {
	if kind == "" {
		return Schema{}, errors.New("schema kind is required")
	}
	seen := make(map[string]bool)
	out := make([]Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("schema %s: field %d has no name", kind, i)
		}
		if !f.Type.Valid() {
			return Schema{}, fmt.Errorf("schema %s: field %s has unknown type %q", kind, f.Name, f.Type)
		}
		if f.Type == Enum && len(f.Options) == 0 {
			return Schema{}, fmt.Errorf("schema %s: enum field %s has no options", kind, f.Name)
		}
		for _, key := range append([]string{f.Name}, f.Aliases...) {
			if seen[key] {
				return Schema{}, fmt.Errorf("schema %s: key %s declared twice", kind, key)
			}
			seen[key] = true
		}
		if err := f.compile(); err != nil {
			return Schema{}, fmt.Errorf("schema %s: %w", kind, err)
		}
		if f.Default != nil {
			if err := f.Validate(f.Default); err != nil {
				return Schema{}, fmt.Errorf("schema %s: default: %w", kind, err)
			}
		}
		out[i] = f
	}
	return Schema{Kind: kind, Fields: out}, nil
}

// MustNew is New that panics on error. Intended for static schemas.
func MustNew(kind string, fields ...Field) Schema {
	s, err := New(kind, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Generic returns the fallback schema for a kind with no registered schema.
func Generic(kind string) Schema {
	return Schema{Kind: kind, Generic: true}
}

// Field returns the field stored under name, matching aliases too.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Matches(name) {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns the default value of every field that has one.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any)
	for _, f := range s.Fields {
		if f.Default != nil {
			out[f.Name] = f.DefaultValue()
		}
	}
	return out
}

// Validate checks a complete set of form values: every present key must be
// valid and every required field must be present. Failures are joined
// *FieldError values. A generic schema accepts any map.
func (s Schema) Validate(values map[string]any) error {
	if s.Generic {
		return nil
	}
	var errs []error
	for _, key := range sortedKeys(values) {
		f, ok := s.Field(key)
		if !ok {
			errs = append(errs, fieldErr(key, ErrUnknownField, ""))
			continue
		}
		if err := f.Validate(values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range s.Fields {
		if f.Required && !hasAny(values, f) {
			errs = append(errs, fieldErr(f.Name, ErrRequired, ""))
		}
	}
	return errors.Join(errs...)
}

// Missing returns the names of required fields absent or empty in cfg.
func (s Schema) Missing(cfg map[string]any) []string {
	var out []string
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		v, ok := lookup(cfg, f)
		if !ok || f.Validate(v) != nil {
			out = append(out, f.Name)
		}
	}
	return out
}

// Patch validates a partial edit and returns the config patch to hand to
// the graph store. Alias keys are rewritten to the canonical name and
// values are normalized. Keys not present in values are left alone, so a
// patch never needs to repeat untouched required fields.
//
// For a generic schema Patch returns a deep copy of values as-is.
func (s Schema) Patch(values map[string]any) (map[string]any, error) {
	if s.Generic {
		return config.Clone(values), nil
	}

	patch := make(map[string]any, len(values))
	var errs []error
	for _, key := range sortedKeys(values) {
		f, ok := s.Field(key)
		if !ok {
			errs = append(errs, fieldErr(key, ErrUnknownField, ""))
			continue
		}
		if _, dup := patch[f.Name]; dup && key != f.Name {
			// canonical key wins over an alias in the same patch
			continue
		}
		kv, err := f.Serialize(values[key])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		patch[f.Name] = kv[f.Name]
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return patch, nil
}

// PatchJSON decodes a raw JSON object and runs it through Patch. This is
// the raw-JSON editing path used for kinds without a typed schema.
func (s Schema) PatchJSON(raw []byte) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrNotObject
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	return s.Patch(values)
}

// FormValues layers schema defaults, then extra (typically template
// defaults), then the node's current config. Alias keys in cfg are read
// under the canonical name.
func (s Schema) FormValues(extra, cfg map[string]any) map[string]any {
	values := s.Defaults()
	values = config.Merge(values, extra)
	if s.Generic {
		return config.Merge(values, cfg)
	}
	for _, key := range sortedKeys(cfg) {
		if f, ok := s.Field(key); ok {
			if key != f.Name {
				if _, canonical := cfg[f.Name]; canonical {
					continue
				}
			}
			values[f.Name] = config.CloneValue(cfg[key])
			continue
		}
		values[key] = config.CloneValue(cfg[key])
	}
	return values
}

func hasAny(values map[string]any, f Field) bool {
	v, ok := lookup(values, f)
	return ok && v != nil
}

func lookup(values map[string]any, f Field) (any, bool) {
	if v, ok := values[f.Name]; ok {
		return v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := values[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

// sortedKeys gives validation a stable error order. Canonical names sort
// before aliases only by accident of spelling, which Patch handles.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

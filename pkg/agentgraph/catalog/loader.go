package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML/JSON shape of a catalog feed.
type catalogFile struct {
	Templates []NodeTemplate `json:"templates" yaml:"templates"`
}

// FromFile loads a catalog, choosing the decoder from the file extension.
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	case ".hcl":
		return fromHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension: %q", ext)
	}
}

// FromYAML parses a catalog from YAML.
func FromYAML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	for i := range f.Templates {
		f.Templates[i].Defaults = normalizeYAML(f.Templates[i].Defaults)
	}
	return New(f.Templates...)
}

// FromJSON parses a catalog from JSON.
func FromJSON(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", err)
	}
	return New(f.Templates...)
}

// hclCatalogFile is the top-level structure of an HCL catalog:
//
//	template "greeting" {
//	  label    = "Greeting"
//	  category = "conversation"
//	  defaults = { message = "Hello!" }
//	}
type hclCatalogFile struct {
	Templates []*hclTemplate `hcl:"template,block"`
}

type hclTemplate struct {
	Kind        string     `hcl:"kind,label"`
	Label       string     `hcl:"label"`
	Icon        string     `hcl:"icon,optional"`
	Color       string     `hcl:"color,optional"`
	Category    string     `hcl:"category,optional"`
	Description string     `hcl:"description,optional"`
	Defaults    *cty.Value `hcl:"defaults,optional"`
}

// FromHCL parses a catalog from HCL source.
func FromHCL(data []byte) (*Catalog, error) {
	return fromHCL(data, "catalog.hcl")
}

func fromHCL(data []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL catalog %s: %w", filename, diags)
	}

	var parsed hclCatalogFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL catalog %s: %w", filename, diags)
	}

	templates := make([]NodeTemplate, 0, len(parsed.Templates))
	for _, ht := range parsed.Templates {
		defaults, err := ctyToMap(ht.Defaults)
		if err != nil {
			return nil, fmt.Errorf("template %q defaults: %w", ht.Kind, err)
		}
		templates = append(templates, NodeTemplate{
			Kind:        ht.Kind,
			Label:       ht.Label,
			Icon:        ht.Icon,
			Color:       ht.Color,
			Category:    ht.Category,
			Description: ht.Description,
			Defaults:    defaults,
		})
	}
	return New(templates...)
}

// ctyToMap converts an HCL object value into plain Go values by way of JSON,
// so numbers come out as float64 like any other loaded config.
func ctyToMap(v *cty.Value) (map[string]any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("must be an object, got %s", v.Type().FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("must be a constant value")
	}

	raw, err := ctyjson.Marshal(*v, v.Type())
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeYAML converts map[any]any nodes that yaml.v3 produces for
// non-string keys into map[string]any.
func normalizeYAML(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeYAMLValue(v)
	}
	return out
}

func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeYAML(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeYAMLValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return v
	}
}

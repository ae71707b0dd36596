package catalog

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/registry"
)

// ErrDuplicateKind is returned when two templates share a kind.
var ErrDuplicateKind = errors.New("duplicate template kind")

// NodeTemplate describes one kind of node that can be placed on the canvas.
type NodeTemplate struct {
	Kind        string         `json:"kind" yaml:"kind" validate:"required,max=64,kindname"`
	Label       string         `json:"label" yaml:"label" validate:"required,max=80"`
	Icon        string         `json:"icon,omitempty" yaml:"icon,omitempty" validate:"max=64"`
	Color       string         `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty" validate:"max=64"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" validate:"max=500"`
	Defaults    map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// clone returns a copy whose Defaults map can be mutated freely.
func (t NodeTemplate) clone() NodeTemplate {
	if t.Defaults != nil {
		t.Defaults = config.Clone(t.Defaults)
	}
	return t
}

// Catalog is the read-only set of node templates, in declaration order.
type Catalog struct {
	templates *registry.Registry[string, NodeTemplate]
}

// New validates templates and builds a Catalog.
func New(templates ...NodeTemplate) (*Catalog, error) {
	reg := registry.New[string, NodeTemplate]()
	for i, t := range templates {
		if err := validateTemplate(t); err != nil {
			return nil, fmt.Errorf("template %d (%q): %w", i, t.Kind, err)
		}
		if !reg.RegisterIfAbsent(t.Kind, t.clone()) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, t.Kind)
		}
	}
	return &Catalog{templates: reg}, nil
}

// MustNew is New that panics on error. Intended for static catalogs.
func MustNew(templates ...NodeTemplate) *Catalog {
	c, err := New(templates...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the template for kind.
func (c *Catalog) Lookup(kind string) (NodeTemplate, bool) {
	if c == nil {
		return NodeTemplate{}, false
	}
	t, ok := c.templates.Get(kind)
	if !ok {
		return NodeTemplate{}, false
	}
	return t.clone(), true
}

// Has reports whether kind is in the catalog.
func (c *Catalog) Has(kind string) bool {
	return c != nil && c.templates.Has(kind)
}

// Templates returns all templates in declaration order.
func (c *Catalog) Templates() []NodeTemplate {
	if c == nil {
		return nil
	}
	values := c.templates.Values()
	out := make([]NodeTemplate, len(values))
	for i, t := range values {
		out[i] = t.clone()
	}
	return out
}

// Kinds returns the template kinds in declaration order.
func (c *Catalog) Kinds() []string {
	if c == nil {
		return nil
	}
	return c.templates.Keys()
}

// Category groups the templates sharing a category name.
type Category struct {
	Name      string         `json:"name"`
	Templates []NodeTemplate `json:"templates"`
}

// ByCategory groups templates by category. Groups appear in the order their
// first template was declared; templates without a category go under "".
func (c *Catalog) ByCategory() []Category {
	var groups []Category
	index := make(map[string]int)
	for _, t := range c.Templates() {
		i, ok := index[t.Category]
		if !ok {
			i = len(groups)
			index[t.Category] = i
			groups = append(groups, Category{Name: t.Category})
		}
		groups[i].Templates = append(groups[i].Templates, t)
	}
	return groups
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return c.templates.Len()
}

package schema

import (
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/registry"
)

// Registry maps node kinds to schemas. Kinds without a schema resolve to
// the generic schema, so every node stays editable.
type Registry struct {
	schemas *registry.Registry[string, Schema]
}

// NewRegistry creates a registry holding the given schemas.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{schemas: registry.New[string, Schema]()}
	for _, s := range schemas {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the schema for s.Kind.
func (r *Registry) Register(s Schema) {
	r.schemas.Register(s.Kind, s)
}

// Resolve returns the schema for kind, or Generic(kind).
func (r *Registry) Resolve(kind string) Schema {
	if r != nil {
		if s, ok := r.schemas.Get(kind); ok {
			return s
		}
	}
	return Generic(kind)
}

// Has reports whether kind has a typed schema.
func (r *Registry) Has(kind string) bool {
	return r != nil && r.schemas.Has(kind)
}

// Kinds returns the kinds with typed schemas, in registration order.
func (r *Registry) Kinds() []string {
	if r == nil {
		return nil
	}
	return r.schemas.Keys()
}

// Field types of the answers a question node can collect.
var answerTypes = []string{"text", "number", "date", "yes_no", "email", "phone"}

// Action types an action node can trigger.
var actionTypes = []string{"webhook", "send_sms", "send_email", "book_appointment"}

// ConditionTypes lists every conditionType a condition node accepts.
var ConditionTypes = []string{"equals", "contains", "greater_than", "less_than", "sentiment", "intent"}

// VariablePattern is the shape of a variable name collected by a
// question node and referenced from templates and conditions.
const VariablePattern = `[A-Za-z_][A-Za-z0-9_]*`

// DefaultRegistry returns schemas for every kind in catalog.Default().
func DefaultRegistry() *Registry {
	return NewRegistry(
		MustNew(catalog.KindVoiceConfig,
			Field{Name: "voiceId", Label: "Voice", Type: Text, Required: true},
			Field{Name: "stability", Label: "Stability", Type: Percentage, Default: 50.0},
			Field{Name: "similarity", Label: "Similarity", Type: Percentage, Default: 75.0, Aliases: []string{"similarityBoost"}},
			Field{Name: "style", Label: "Style exaggeration", Type: Percentage, Default: 0.0},
			Field{Name: "useSpeakerBoost", Label: "Speaker boost", Type: Boolean, Default: true},
			Field{Name: "modelId", Label: "Model", Type: Text},
		),
		MustNew(catalog.KindPrompt,
			Field{Name: "instructions", Label: "Instructions", Type: Text, Multiline: true},
			Field{Name: "temperature", Label: "Temperature", Type: Number, Default: 0.7, Min: Bound(0), Max: Bound(1)},
		),
		MustNew(catalog.KindGreeting,
			Field{Name: "message", Label: "Greeting message", Type: Text, Multiline: true},
		),
		MustNew(catalog.KindKnowledgeBase,
			Field{Name: "content", Label: "Content", Type: Text, Multiline: true},
			Field{Name: "documents", Label: "Documents", Type: FileList},
			Field{Name: "urls", Label: "URLs", Type: URLList},
		),
		MustNew(catalog.KindQuestion,
			Field{Name: "questionText", Label: "Question", Type: Text, Multiline: true},
			Field{Name: "answerType", Label: "Answer type", Type: Enum, Options: answerTypes, Default: "text"},
			Field{Name: "variableName", Label: "Save answer as", Type: Text, Pattern: VariablePattern, MaxLength: 64,
				Help: "letters, digits and underscores"},
		),
		MustNew(catalog.KindCondition,
			Field{Name: "conditionType", Label: "Condition", Type: Enum, Options: ConditionTypes, Default: "equals"},
			Field{Name: "variable", Label: "Variable", Type: Text, Pattern: VariablePattern},
			Field{Name: "value", Label: "Value", Type: Text},
		),
		MustNew(catalog.KindAction,
			Field{Name: "actionType", Label: "Action", Type: Enum, Options: actionTypes, Default: "webhook"},
			Field{Name: "url", Label: "URL", Type: Text},
			Field{Name: "payloadTemplate", Label: "Payload template", Type: Text, Multiline: true},
		),
		MustNew(catalog.KindTransferCall,
			Field{Name: "phoneNumber", Label: "Phone number", Type: Text, Required: true, Pattern: `\+?[0-9 ()\-]{3,20}`},
			Field{Name: "message", Label: "Transfer message", Type: Text, Multiline: true},
		),
		MustNew(catalog.KindEndCall,
			Field{Name: "message", Label: "Goodbye message", Type: Text, Multiline: true},
		),
	)
}

// Check reports kinds in cat that have no typed schema in r.
func (r *Registry) Check(cat *catalog.Catalog) error {
	var missing []string
	for _, kind := range cat.Kinds() {
		if !r.Has(kind) {
			missing = append(missing, kind)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no schema for kinds %v", missing)
	}
	return nil
}

package schema

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/expr"
)

// FieldType is the editor widget and value shape of a field.
type FieldType string

const (
	Text       FieldType = "text"
	Number     FieldType = "number"
	Percentage FieldType = "percentage"
	Enum       FieldType = "enum"
	FileList   FieldType = "fileList"
	URLList    FieldType = "urlList"
	Boolean    FieldType = "boolean"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case Text, Number, Percentage, Enum, FileList, URLList, Boolean:
		return true
	}
	return false
}

// Field describes one editable config key.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Default  any       `json:"default,omitempty"`
	Required bool      `json:"required,omitempty"`

	// Options lists the allowed values of an Enum field.
	Options []string `json:"options,omitempty"`

	// Min and Max bound Number fields. Percentage fields are always 0..100.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// MaxLength caps Text fields, in characters. Zero means no cap.
	MaxLength int `json:"maxLength,omitempty"`

	// Pattern, when set, must match the whole Text value.
	Pattern string `json:"pattern,omitempty"`

	// Multiline hints that a Text field holds long-form text.
	Multiline bool `json:"multiline,omitempty"`

	// Aliases are older key names accepted on input and rewritten to Name.
	Aliases []string `json:"aliases,omitempty"`

	Help string `json:"help,omitempty"`

	pattern *regexp.Regexp
}

// Bound returns a pointer to v, for Field.Min and Field.Max.
func Bound(v float64) *float64 {
	return &v
}

func (f *Field) compile() error {
	if f.Pattern == "" {
		f.pattern = nil
		return nil
	}
	re, err := regexp.Compile(`^(?:` + f.Pattern + `)$`)
	if err != nil {
		return fmt.Errorf("field %s pattern: %w", f.Name, err)
	}
	f.pattern = re
	return nil
}

// DefaultValue returns a deep copy of the field's default.
func (f Field) DefaultValue() any {
	return config.CloneValue(f.Default)
}

// Valid reports whether v is acceptable for the field.
func (f Field) Valid(v any) bool {
	return f.Validate(v) == nil
}

// Validate checks v against the field's type and constraints. A nil value
// is accepted unless the field is required.
func (f Field) Validate(v any) error {
	_, err := f.normalize(v)
	return err
}

// Serialize validates v and returns the config patch that stores it, with
// the value normalized to JSON-native types.
func (f Field) Serialize(v any) (map[string]any, error) {
	norm, err := f.normalize(v)
	if err != nil {
		return nil, err
	}
	return map[string]any{f.Name: norm}, nil
}

// Matches reports whether key is the field's name or one of its aliases.
func (f Field) Matches(key string) bool {
	return key == f.Name || slices.Contains(f.Aliases, key)
}

func (f Field) normalize(v any) (any, error) {
	if v == nil {
		if f.Required {
			return nil, fieldErr(f.Name, ErrRequired, "")
		}
		return nil, nil
	}

	switch f.Type {
	case Text:
		return f.normalizeText(v)
	case Number:
		return f.normalizeNumber(v)
	case Percentage:
		return f.normalizePercentage(v)
	case Enum:
		return f.normalizeEnum(v)
	case FileList:
		return f.normalizeFileList(v)
	case URLList:
		return f.normalizeURLList(v)
	case Boolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fieldErr(f.Name, ErrType, "want boolean, got %T", v)
		}
		return b, nil
	default:
		return nil, fieldErr(f.Name, ErrType, "unknown field type %q", f.Type)
	}
}

func (f Field) normalizeText(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fieldErr(f.Name, ErrType, "want text, got %T", v)
	}
	if f.Required && strings.TrimSpace(s) == "" {
		return nil, fieldErr(f.Name, ErrRequired, "")
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(s) > f.MaxLength {
		return nil, fieldErr(f.Name, ErrTooLong, "max %d characters", f.MaxLength)
	}
	if f.Pattern != "" && s != "" {
		if f.pattern == nil {
			if err := f.compile(); err != nil {
				return nil, fieldErr(f.Name, ErrPattern, err.Error())
			}
		}
		if !f.pattern.MatchString(s) {
			return nil, fieldErr(f.Name, ErrPattern, "")
		}
	}
	return s, nil
}

func toNumber(v any) (float64, bool) {
	if _, isBool := v.(bool); isBool {
		return 0, false
	}
	n, ok := expr.ToFloat64(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func (f Field) normalizeNumber(v any) (any, error) {
	n, ok := toNumber(v)
	if !ok {
		return nil, fieldErr(f.Name, ErrType, "want number, got %T", v)
	}
	if f.Min != nil && n < *f.Min {
		return nil, fieldErr(f.Name, ErrRange, "min %g", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, fieldErr(f.Name, ErrRange, "max %g", *f.Max)
	}
	return n, nil
}

// normalizePercentage accepts whole numbers 0..100. They are stored as
// float64, the type a JSON round-trip yields.
func (f Field) normalizePercentage(v any) (any, error) {
	n, ok := toNumber(v)
	if !ok {
		return nil, fieldErr(f.Name, ErrType, "want number, got %T", v)
	}
	if n != math.Trunc(n) {
		return nil, fieldErr(f.Name, ErrType, "want a whole number")
	}
	if n < 0 || n > 100 {
		return nil, fieldErr(f.Name, ErrRange, "0 to 100")
	}
	return n, nil
}

func (f Field) normalizeEnum(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fieldErr(f.Name, ErrType, "want text, got %T", v)
	}
	if s == "" && !f.Required {
		return s, nil
	}
	if !slices.Contains(f.Options, s) {
		return nil, fieldErr(f.Name, ErrOption, "one of %s", strings.Join(f.Options, ", "))
	}
	return s, nil
}

// normalizeFileList accepts a list of {id, name, uploadedAt} objects.
func (f Field) normalizeFileList(v any) (any, error) {
	items, ok := asList(v)
	if !ok {
		return nil, fieldErr(f.Name, ErrType, "want a list of documents, got %T", v)
	}
	if f.Required && len(items) == 0 {
		return nil, fieldErr(f.Name, ErrRequired, "")
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		doc, ok := item.(map[string]any)
		if !ok {
			return nil, fieldErr(f.Name, ErrType, "item %d: want an object", i)
		}
		id, _ := doc["id"].(string)
		name, _ := doc["name"].(string)
		if id == "" || name == "" {
			return nil, fieldErr(f.Name, ErrRequired, "item %d: id and name", i)
		}
		entry := map[string]any{"id": id, "name": name}
		if at, present := doc["uploadedAt"]; present && at != nil {
			s, ok := at.(string)
			if !ok {
				return nil, fieldErr(f.Name, ErrType, "item %d: uploadedAt must be text", i)
			}
			entry["uploadedAt"] = s
		}
		out = append(out, entry)
	}
	return out, nil
}

// normalizeURLList accepts a list of absolute http(s) URLs.
func (f Field) normalizeURLList(v any) (any, error) {
	items, ok := asList(v)
	if !ok {
		return nil, fieldErr(f.Name, ErrType, "want a list of URLs, got %T", v)
	}
	if f.Required && len(items) == 0 {
		return nil, fieldErr(f.Name, ErrRequired, "")
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fieldErr(f.Name, ErrType, "item %d: want text", i)
		}
		u, err := url.Parse(strings.TrimSpace(s))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fieldErr(f.Name, ErrPattern, "item %d: want an http(s) URL", i)
		}
		out = append(out, u.String())
	}
	return out, nil
}

func asList(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

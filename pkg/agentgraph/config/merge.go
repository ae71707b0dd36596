package config

// Merge returns a new map holding base with patch applied on top.
// The merge is shallow: keys in patch replace keys in base wholesale,
// keys absent from patch are kept. Neither input is modified, and the
// result shares no mutable state with either of them.
func Merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = CloneValue(v)
	}
	for k, v := range patch {
		out[k] = CloneValue(v)
	}
	return out
}

// Clone deep-copies a config map. Nested maps and slices are copied;
// scalar values are shared. A nil map clones to an empty one.
func Clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the container types produced by JSON and YAML
// decoding. Other values are returned as-is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// Package registry provides a generic, ordered, thread-safe registry for
// values indexed by key.
//
// The node template catalog and the configuration schema registry are
// both built on it. Unlike a plain map, iteration follows registration
// order, so a palette of node templates renders the same way every time:
//
//	r := registry.New[string, Template]()
//	r.Register("voice_config", voice)
//	r.Register("prompt", prompt)
//
//	for _, t := range r.Values() {
//	    fmt.Println(t.Label) // Voice, Prompt
//	}
//
// GetOrCreate gives lazy, at-most-once initialization per key, which the
// supporting-data caches use to memoize remote lookups.
package registry

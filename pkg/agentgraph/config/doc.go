/*
Package config provides type-safe access to the map[string]any values that
carry node configuration and editor settings.

# Node Configuration

Every node in an agent graph stores its kind-specific settings as a plain
map. Config wraps such a map with accessors that fall back to a default
when a key is missing or holds the wrong type:

	cfg := config.New(node.Config)
	voice := cfg.String("voiceId", "")
	stability := cfg.Int("stability", 50)
	boost := cfg.Bool("useSpeakerBoost", true)

Integers arriving from JSON are float64; Int accepts them as long as they
have no fractional part.

# Merging

Merge implements the shallow merge used when a configuration panel is
applied: keys in the patch overwrite, everything else is retained.

	merged := config.Merge(map[string]any{"a": 1}, map[string]any{"b": 2})
	// {"a": 1, "b": 2}

Merge and Clone deep-copy nested maps and slices so that a stored node
never aliases a caller's map.

# File Loading

Settings files for the editor and the agentgraphd server load from YAML
or JSON. Nested sections are reached with Sub:

	cfg, err := config.FromFile("agentgraph.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	addr := cfg.Sub("http").String("addr", ":8080")
*/
package config

// Package agentgraph is the in-memory model behind a visual voice-agent
// editor: a directed graph of typed configuration nodes.
//
// # Quick Start
//
//	store := agentgraph.NewStore(catalog.Default())
//
//	voice, _ := store.AddNode("voice_config", agentgraph.Position{X: 10, Y: 10})
//	prompt, _ := store.AddNode("prompt", agentgraph.Position{X: 200, Y: 10})
//	store.AddEdge(voice.ID, prompt.ID, agentgraph.Handles{})
//
//	store.UpdateNodeConfig(voice.ID, map[string]any{"voiceId": "v1", "stability": 50})
//	store.RemoveNode(voice.ID) // the edge goes with it
//
// # Guarantees
//
// The Store is the only writer of nodes and edges:
//   - every edge always has both endpoints in the graph; RemoveNode deletes
//     incident edges in the same locked step
//   - AddNode with a kind missing from the catalog is a no-op
//   - a rejected connection (self-loop, duplicate, missing endpoint) creates
//     nothing and reports false rather than an error
//   - UpdateNodeConfig merges shallowly and moves pending nodes to configured
//
// Loading a saved graph goes through Hydrate, which keeps nodes of unknown
// kind (quarantined) instead of failing; see the document package.
//
// # Subpackages
//
//   - catalog: node templates (palette entries)
//   - canvas: viewport to graph coordinate mapping
//   - schema: per-kind configuration forms and validation
//   - document: the persisted {nodes, edges} document
//   - persist: storage backends for documents
//   - editor: gesture-level facade tying the pieces together
//   - api: HTTP surface over catalog, schemas and saved graphs
package agentgraph

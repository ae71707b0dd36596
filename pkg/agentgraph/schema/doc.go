// Package schema describes the configuration form of each node kind.
//
// A Schema lists typed fields (text, number, percentage, enum, fileList,
// urlList, boolean) with their defaults and constraints. The Registry
// resolves a kind to its schema and falls back to a generic raw-JSON
// schema for kinds it does not know, so nodes loaded from newer documents
// can still be edited.
//
// Schemas never touch the graph. Patch turns form values into a validated
// config patch, and the caller hands that patch to Store.UpdateNodeConfig:
//
//	s := schema.DefaultRegistry().Resolve(node.Kind)
//	patch, err := s.Patch(map[string]any{"similarityBoost": 80})
//	if err != nil {
//		return err
//	}
//	store.UpdateNodeConfig(node.ID, patch)
package schema

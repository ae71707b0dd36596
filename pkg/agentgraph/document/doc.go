// Package document converts a graph to and from its persisted JSON form.
//
// Serialize dumps a store in insertion order. Deserialize loads a document
// into a fresh store and never fails because a node kind is unknown: such
// nodes are quarantined and reported, so a catalog change never destroys a
// saved graph. Only a structurally invalid document is rejected.
//
//	data, _ := document.Marshal(document.Serialize(store))
//	doc, _ := document.Unmarshal(data)
//	store, report, err := document.Deserialize(doc, catalog.Default())
package document

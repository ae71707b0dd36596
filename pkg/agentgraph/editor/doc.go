// Package editor drives a voice-agent graph the way the canvas does.
//
// An Editor owns one graph store and one viewport. Gestures arrive in
// viewport coordinates and are mapped to graph space before they reach the
// store:
//
//	ed := editor.New(graphID,
//	    editor.WithPersistence(store),
//	    editor.WithLogger(logger),
//	)
//	greet, _ := ed.Drop(catalog.KindGreeting, canvas.Point{X: 120, Y: 80})
//	end, _ := ed.Drop(catalog.KindEndCall, canvas.Point{X: 420, Y: 80})
//	ed.Connect(greet.ID, end.ID, agentgraph.Handles{})
//
//	form, _ := ed.Inspect(greet.ID)
//	if err := ed.Apply(greet.ID, map[string]any{"message": "Hello!"}); err != nil {
//	    // invalid value; the node is unchanged
//	}
//
//	if err := ed.Save(ctx); err != nil {
//	    var saveErr *agentgraph.SaveError
//	    // errors.As(err, &saveErr) reports attempts; the graph is intact
//	}
//
// Rejected gestures (an unknown kind, a self-loop, a duplicate edge) return
// false and leave the graph as it was. Lint reports advisory findings and
// never blocks a save.
package editor

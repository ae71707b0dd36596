// Package canvas maps pointer coordinates between the viewport (what the
// user sees) and graph space (where node positions are stored).
//
// The mapping is graph = (viewport - pan) / zoom. Use the pure functions
// when the transform is at hand, or a Viewport to track the live transform
// across pan and zoom gestures:
//
//	vp := canvas.NewViewport()
//	vp.PanBy(120, -40)
//	vp.ZoomAt(canvas.Point{X: 400, Y: 300}, 1.25)
//	drop := vp.ToGraphSpace(canvas.Point{X: 512, Y: 380})
package canvas

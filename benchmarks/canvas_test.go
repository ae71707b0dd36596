package benchmarks

import (
	"testing"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/canvas"
)

// BenchmarkToGraphSpace measures the pure coordinate mapping.
func BenchmarkToGraphSpace(b *testing.B) {
	t := canvas.Transform{PanX: 120, PanY: -40, Zoom: 1.5}
	p := canvas.Point{X: 640, Y: 360}
	for i := 0; i < b.N; i++ {
		canvas.ToGraphSpace(p, t)
	}
}

// BenchmarkViewport_ZoomAt measures an anchored zoom step.
func BenchmarkViewport_ZoomAt(b *testing.B) {
	v := canvas.NewViewport()
	anchor := canvas.Point{X: 400, Y: 300}
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			v.ZoomAt(anchor, 1.1)
		} else {
			v.ZoomAt(anchor, 1/1.1)
		}
	}
}

package canvas

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// near compares with a tolerance relative to the magnitude of the values.
func near(t *testing.T, want, got Point, msgAndArgs ...any) {
	t.Helper()
	scale := math.Max(1, math.Max(math.Abs(want.X), math.Abs(want.Y)))
	assert.InDelta(t, want.X, got.X, tolerance*scale, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tolerance*scale, msgAndArgs...)
}

func TestToGraphSpace(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		tr   Transform
		want Point
	}{
		{"identity", Point{10, 20}, Identity, Point{10, 20}},
		{"pan only", Point{110, 70}, Transform{PanX: 100, PanY: 50, Zoom: 1}, Point{10, 20}},
		{"zoom only", Point{20, 40}, Transform{Zoom: 2}, Point{10, 20}},
		{"pan and zoom", Point{300, 150}, Transform{PanX: 100, PanY: 50, Zoom: 0.5}, Point{400, 200}},
		{"zero zoom reads as 1", Point{5, 5}, Transform{}, Point{5, 5}},
		{"negative zoom reads as 1", Point{5, 5}, Transform{Zoom: -2}, Point{5, 5}},
		{"NaN zoom reads as 1", Point{5, 5}, Transform{Zoom: math.NaN()}, Point{5, 5}},
		{"Inf zoom reads as 1", Point{5, 5}, Transform{Zoom: math.Inf(1)}, Point{5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToGraphSpace(tt.p, tt.tr))
		})
	}
}

func TestProperty_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1024))

	for i := 0; i < 5000; i++ {
		tr := Transform{
			PanX: (r.Float64() - 0.5) * 1e4,
			PanY: (r.Float64() - 0.5) * 1e4,
			Zoom: 0.05 + r.Float64()*8,
		}
		g := Point{X: (r.Float64() - 0.5) * 1e5, Y: (r.Float64() - 0.5) * 1e5}

		back := ToGraphSpace(ToViewportSpace(g, tr), tr)
		near(t, g, back, "iteration %d: g=%v t=%v", i, g, tr)

		v := Point{X: (r.Float64() - 0.5) * 4000, Y: (r.Float64() - 0.5) * 4000}
		near(t, v, ToViewportSpace(ToGraphSpace(v, tr), tr), "iteration %d", i)
	}
}

func TestProperty_Idempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 1000; i++ {
		tr := Transform{PanX: r.Float64() * 500, PanY: r.Float64() * 500, Zoom: 0.1 + r.Float64()*3}
		p := Point{X: r.Float64() * 2000, Y: r.Float64() * 2000}
		require.Equal(t, ToGraphSpace(p, tr), ToGraphSpace(p, tr))
	}
}

// After any sequence of gestures, converting a fixed screen point must
// agree with the pure function applied to the viewport's current transform.
func TestProperty_ViewportNoDrift(t *testing.T) {
	r := rand.New(rand.NewPCG(99, 100))
	screen := Point{X: 640, Y: 360}

	for run := 0; run < 1000; run++ {
		vp := NewViewport()
		for step := 0; step < 20; step++ {
			switch r.IntN(4) {
			case 0:
				vp.PanBy((r.Float64()-0.5)*200, (r.Float64()-0.5)*200)
			case 1:
				vp.ZoomAt(Point{X: r.Float64() * 1280, Y: r.Float64() * 720}, 0.5+r.Float64())
			case 2:
				vp.ZoomTo(screen, 0.1+r.Float64()*3.9)
			default:
				vp.SetTransform(Transform{PanX: r.Float64() * 100, PanY: r.Float64() * 100, Zoom: 0.1 + r.Float64()})
			}

			tr := vp.Transform()
			require.GreaterOrEqual(t, tr.Zoom, DefaultMinZoom)
			require.LessOrEqual(t, tr.Zoom, DefaultMaxZoom)
			require.Equal(t, ToGraphSpace(screen, tr), vp.ToGraphSpace(screen))
		}
	}
}

func TestProperty_ZoomAtKeepsAnchorFixed(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 13))
	for i := 0; i < 1000; i++ {
		vp := NewViewport(WithTransform(Transform{
			PanX: (r.Float64() - 0.5) * 1000,
			PanY: (r.Float64() - 0.5) * 1000,
			Zoom: 0.5 + r.Float64(),
		}))
		anchor := Point{X: r.Float64() * 1920, Y: r.Float64() * 1080}
		before := vp.ToGraphSpace(anchor)

		vp.ZoomAt(anchor, 0.8+r.Float64()*0.4)

		after := vp.ToGraphSpace(anchor)
		scale := math.Max(1, math.Max(math.Abs(before.X), math.Abs(before.Y)))
		require.InDelta(t, before.X, after.X, 1e-9*scale)
		require.InDelta(t, before.Y, after.Y, 1e-9*scale)
	}
}

func TestViewport_ZoomClamp(t *testing.T) {
	vp := NewViewport()
	vp.ZoomAt(Point{}, 100)
	assert.Equal(t, DefaultMaxZoom, vp.Transform().Zoom)

	vp.ZoomAt(Point{}, 1e-6)
	assert.Equal(t, DefaultMinZoom, vp.Transform().Zoom)

	before := vp.Transform()
	vp.ZoomAt(Point{}, 0)
	vp.ZoomAt(Point{}, -1)
	vp.ZoomAt(Point{}, math.NaN())
	assert.Equal(t, before, vp.Transform())

	custom := NewViewport(WithZoomBounds(0.5, 2))
	custom.SetTransform(Transform{Zoom: 10})
	assert.Equal(t, 2.0, custom.Transform().Zoom)

	ignored := NewViewport(WithZoomBounds(2, 1))
	ignored.SetTransform(Transform{Zoom: 3})
	assert.Equal(t, 3.0, ignored.Transform().Zoom)
}

func TestViewport_PanAndReset(t *testing.T) {
	vp := NewViewport()
	vp.PanBy(100, 50)
	vp.PanBy(-20, 10)
	assert.Equal(t, Transform{PanX: 80, PanY: 60, Zoom: 1}, vp.Transform())
	assert.Equal(t, Point{X: 20, Y: 40}, vp.ToGraphSpace(Point{X: 100, Y: 100}))
	assert.Equal(t, Point{X: 100, Y: 100}, vp.ToViewportSpace(Point{X: 20, Y: 40}))

	vp.SetTransform(Transform{PanX: math.NaN(), PanY: math.Inf(-1), Zoom: 1})
	assert.Equal(t, Identity, vp.Transform())

	vp.PanBy(5, 5)
	vp.Reset()
	assert.Equal(t, Identity, vp.Transform())
}

func TestSnapToGrid(t *testing.T) {
	assert.Equal(t, Point{X: 20, Y: 40}, SnapToGrid(Point{X: 24, Y: 36}, 20))
	assert.Equal(t, Point{X: -20, Y: 0}, SnapToGrid(Point{X: -14, Y: 4}, 20))
	assert.Equal(t, Point{X: 3.3, Y: 4.4}, SnapToGrid(Point{X: 3.3, Y: 4.4}, 0))
}

package canvas

import (
	"math"
	"sync"
)

// Default zoom bounds for a Viewport.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 4.0
)

// Point is a 2-D coordinate, in either viewport or graph space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is the canvas pan offset and zoom factor. A viewport point p
// shows graph point (p - Pan) / Zoom.
type Transform struct {
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
	Zoom float64 `json:"zoom"`
}

// Identity is the transform with no pan and zoom 1.
var Identity = Transform{Zoom: 1}

// zoom returns t.Zoom, or 1 when it is not a usable scale factor.
func (t Transform) zoom() float64 {
	if t.Zoom <= 0 || math.IsNaN(t.Zoom) || math.IsInf(t.Zoom, 0) {
		return 1
	}
	return t.Zoom
}

// ToGraphSpace converts a viewport point to graph space: (p - pan) / zoom.
func ToGraphSpace(p Point, t Transform) Point {
	z := t.zoom()
	return Point{
		X: (p.X - t.PanX) / z,
		Y: (p.Y - t.PanY) / z,
	}
}

// ToViewportSpace converts a graph point to viewport space: g*zoom + pan.
func ToViewportSpace(g Point, t Transform) Point {
	z := t.zoom()
	return Point{
		X: g.X*z + t.PanX,
		Y: g.Y*z + t.PanY,
	}
}

// SnapToGrid rounds p to the nearest multiple of grid on each axis.
// A non-positive grid returns p unchanged.
func SnapToGrid(p Point, grid float64) Point {
	if grid <= 0 || math.IsNaN(grid) || math.IsInf(grid, 0) {
		return p
	}
	return Point{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// Viewport holds the live transform of a canvas. Gesture handlers read the
// transform at conversion time, so a conversion never uses a transform
// captured before a later pan or zoom.
//
// Each operation computes the new transform from absolute values rather
// than applying incremental deltas to derived state, which keeps repeated
// pan and zoom free of drift. Viewport is safe for concurrent use.
type Viewport struct {
	mu      sync.RWMutex
	t       Transform
	minZoom float64
	maxZoom float64
}

// ViewportOption configures a Viewport.
type ViewportOption func(*Viewport)

// WithZoomBounds sets the zoom clamp. Invalid bounds are ignored.
func WithZoomBounds(minZoom, maxZoom float64) ViewportOption {
	return func(v *Viewport) {
		if minZoom > 0 && maxZoom >= minZoom && !math.IsInf(maxZoom, 0) {
			v.minZoom = minZoom
			v.maxZoom = maxZoom
		}
	}
}

// WithTransform sets the initial transform.
func WithTransform(t Transform) ViewportOption {
	return func(v *Viewport) {
		v.t = t
	}
}

// NewViewport creates a viewport at the identity transform.
func NewViewport(opts ...ViewportOption) *Viewport {
	v := &Viewport{
		t:       Identity,
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.t = v.normalize(v.t)
	return v
}

// normalize sanitizes a transform: zoom is clamped and non-finite pans
// reset to zero.
func (v *Viewport) normalize(t Transform) Transform {
	t.Zoom = v.clampZoom(t.zoom())
	if math.IsNaN(t.PanX) || math.IsInf(t.PanX, 0) {
		t.PanX = 0
	}
	if math.IsNaN(t.PanY) || math.IsInf(t.PanY, 0) {
		t.PanY = 0
	}
	return t
}

func (v *Viewport) clampZoom(z float64) float64 {
	return math.Max(v.minZoom, math.Min(v.maxZoom, z))
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.t
}

// SetTransform replaces the current transform, clamping zoom.
func (v *Viewport) SetTransform(t Transform) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.t = v.normalize(t)
}

// PanBy shifts the view by (dx, dy) viewport pixels.
func (v *Viewport) PanBy(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.t = v.normalize(Transform{PanX: v.t.PanX + dx, PanY: v.t.PanY + dy, Zoom: v.t.Zoom})
}

// ZoomAt multiplies zoom by factor, keeping the graph point under anchor
// (a viewport point) fixed on screen. Non-positive factors are ignored.
func (v *Viewport) ZoomAt(anchor Point, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	g := ToGraphSpace(anchor, v.t)
	z := v.clampZoom(v.t.Zoom * factor)
	v.t = v.normalize(Transform{
		PanX: anchor.X - g.X*z,
		PanY: anchor.Y - g.Y*z,
		Zoom: z,
	})
}

// ZoomTo sets an absolute zoom, keeping anchor fixed on screen.
func (v *Viewport) ZoomTo(anchor Point, zoom float64) {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	g := ToGraphSpace(anchor, v.t)
	z := v.clampZoom(zoom)
	v.t = v.normalize(Transform{
		PanX: anchor.X - g.X*z,
		PanY: anchor.Y - g.Y*z,
		Zoom: z,
	})
}

// Reset returns to the identity transform.
func (v *Viewport) Reset() {
	v.SetTransform(Identity)
}

// ToGraphSpace converts p using the current transform.
func (v *Viewport) ToGraphSpace(p Point) Point {
	return ToGraphSpace(p, v.Transform())
}

// ToViewportSpace converts g using the current transform.
func (v *Viewport) ToViewportSpace(g Point) Point {
	return ToViewportSpace(g, v.Transform())
}

// Package input maps client pointer and touch events to surface
// coordinates and drives session gestures from them.
package input

import (
	"math"

	"github.com/gogpu/gg"
)

// Zoom limits and steps.
const (
	MinZoom  = 0.1
	MaxZoom  = 8.0
	ZoomStep = 1.25
)

// Viewport places a zoomed surface in client space.
type Viewport struct {
	// Left and Top are the client coordinates of the surface origin.
	Left, Top float64

	zoom float64
}

// NewViewport returns a viewport at (left, top) with zoom 1.
func NewViewport(left, top float64) *Viewport {
	return &Viewport{Left: left, Top: top, zoom: 1}
}

// Zoom returns the zoom factor.
func (v *Viewport) Zoom() float64 {
	if v.zoom == 0 {
		return 1
	}
	return v.zoom
}

// Percent returns the zoom as a rounded percentage.
func (v *Viewport) Percent() int {
	return int(math.Round(v.Zoom() * 100))
}

// SetZoom sets the zoom factor clamped to [MinZoom, MaxZoom] and returns
// the value applied.
func (v *Viewport) SetZoom(z float64) float64 {
	if math.IsNaN(z) {
		z = 1
	}
	v.zoom = min(max(z, MinZoom), MaxZoom)
	return v.zoom
}

// ZoomIn multiplies the zoom by ZoomStep.
func (v *Viewport) ZoomIn() float64 {
	return v.SetZoom(v.Zoom() * ZoomStep)
}

// ZoomOut divides the zoom by ZoomStep.
func (v *Viewport) ZoomOut() float64 {
	return v.SetZoom(v.Zoom() / ZoomStep)
}

// ResetZoom sets the zoom back to 1.
func (v *Viewport) ResetZoom() float64 {
	return v.SetZoom(1)
}

// Wheel applies a scroll-wheel zoom: scrolling down (positive deltaY)
// zooms out by 10%, scrolling up zooms in by 10%.
func (v *Viewport) Wheel(deltaY float64) float64 {
	switch {
	case deltaY > 0:
		return v.SetZoom(v.Zoom() * 0.9)
	case deltaY < 0:
		return v.SetZoom(v.Zoom() * 1.1)
	default:
		return v.Zoom()
	}
}

// ToSurface converts client coordinates to surface coordinates.
func (v *Viewport) ToSurface(clientX, clientY float64) gg.Point {
	z := v.Zoom()
	return gg.Pt((clientX-v.Left)/z, (clientY-v.Top)/z)
}

// ToClient converts a surface point to client coordinates, for placing
// overlays such as a text field.
func (v *Viewport) ToClient(p gg.Point) (x, y float64) {
	z := v.Zoom()
	return v.Left + p.X*z, v.Top + p.Y*z
}

// Map returns the surface point of a pointer event.
func (v *Viewport) Map(ev PointerEvent) gg.Point {
	x, y := ev.Client()
	return v.ToSurface(x, y)
}

package input

import (
	"github.com/gogpu/gg"
)

// Touch is one touch point in client coordinates.
type Touch struct {
	ClientX, ClientY float64
}

// PointerEvent is a mouse or touch event in client coordinates.
type PointerEvent struct {
	ClientX, ClientY float64

	// Touches are the active touches; ChangedTouches those that changed in
	// this event (the lifted finger on touch end).
	Touches        []Touch
	ChangedTouches []Touch

	// NoPosition marks an event that carries no usable coordinates, such
	// as a touch end reported without its lifted finger.
	NoPosition bool
}

// Client returns the event position: the first active touch, else the
// first changed touch, else the mouse position.
func (ev PointerEvent) Client() (x, y float64) {
	switch {
	case len(ev.Touches) > 0:
		return ev.Touches[0].ClientX, ev.Touches[0].ClientY
	case len(ev.ChangedTouches) > 0:
		return ev.ChangedTouches[0].ClientX, ev.ChangedTouches[0].ClientY
	default:
		return ev.ClientX, ev.ClientY
	}
}

// Gestures receives gestures in surface coordinates. *paint.Session
// implements it.
type Gestures interface {
	GestureStart(p gg.Point) error
	GestureMove(p gg.Point) error
	GestureEnd(p gg.Point) error
}

// Pointer turns press, move and release events into gestures. Moves
// without a press are dropped, as is a release without a press.
type Pointer struct {
	View    *Viewport
	Target  Gestures
	pressed bool
	last    gg.Point
}

// NewPointer returns a Pointer feeding target through view.
func NewPointer(view *Viewport, target Gestures) *Pointer {
	return &Pointer{View: view, Target: target}
}

// Pressed reports whether a press is in progress.
func (p *Pointer) Pressed() bool {
	return p.pressed
}

// Down starts a gesture.
func (p *Pointer) Down(ev PointerEvent) error {
	p.pressed = true
	p.last = p.View.Map(ev)
	return p.Target.GestureStart(p.last)
}

// Move continues the gesture.
func (p *Pointer) Move(ev PointerEvent) error {
	if !p.pressed {
		return nil
	}
	p.last = p.View.Map(ev)
	return p.Target.GestureMove(p.last)
}

// Up ends the gesture at the release position, or at the last known
// point when ev.NoPosition is set.
func (p *Pointer) Up(ev PointerEvent) error {
	if !p.pressed {
		return nil
	}
	p.pressed = false
	pt := p.last
	if !ev.NoPosition {
		pt = p.View.Map(ev)
	}
	return p.Target.GestureEnd(pt)
}

// Leave ends a gesture when the pointer leaves the surface, at the last
// known point.
func (p *Pointer) Leave() error {
	if !p.pressed {
		return nil
	}
	p.pressed = false
	return p.Target.GestureEnd(p.last)
}

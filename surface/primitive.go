// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Primitive is a drawable shape. The set is closed: Line, Rectangle, Circle,
// Ellipse and Text.
type Primitive interface {
	// bounds returns the pixels the primitive may touch when drawn with p.
	bounds(p Paint) image.Rectangle

	// render builds the primitive on dc and paints it.
	render(dc *gg.Context, p Paint) error
}

// unbounded is used by primitives whose extent is not known up front.
var unbounded = image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)

// Line is a straight segment.
type Line struct {
	From, To gg.Point
}

// Rectangle is an axis-aligned rectangle. W and H may be negative, in which
// case the rectangle extends left or up from (X, Y).
type Rectangle struct {
	X, Y, W, H float64
}

// Circle is a circle around Center.
type Circle struct {
	Center gg.Point
	Radius float64
}

// Ellipse is an axis-aligned ellipse around Center.
type Ellipse struct {
	Center gg.Point
	RX, RY float64
}

// Text is a single line of text with its baseline starting at At.
type Text struct {
	At    gg.Point
	Value string
	Face  text.Face
}

// pad grows a float extent by the stroke width and converts it to pixels.
func pad(minX, minY, maxX, maxY float64, p Paint) image.Rectangle {
	w := math.Max(p.Width, 1)/2 + 1
	return image.Rect(
		int(math.Floor(minX-w)), int(math.Floor(minY-w)),
		int(math.Ceil(maxX+w)), int(math.Ceil(maxY+w)),
	)
}

// Normalize returns the rectangle with non-negative W and H.
func (r Rectangle) Normalize() Rectangle {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

func (l Line) bounds(p Paint) image.Rectangle {
	return pad(
		math.Min(l.From.X, l.To.X), math.Min(l.From.Y, l.To.Y),
		math.Max(l.From.X, l.To.X), math.Max(l.From.Y, l.To.Y), p)
}

func (l Line) render(dc *gg.Context, p Paint) error {
	p.apply(dc)
	dc.MoveTo(l.From.X, l.From.Y)
	dc.LineTo(l.To.X, l.To.Y)
	return dc.Stroke()
}

func (r Rectangle) bounds(p Paint) image.Rectangle {
	n := r.Normalize()
	return pad(n.X, n.Y, n.X+n.W, n.Y+n.H, p)
}

func (r Rectangle) render(dc *gg.Context, p Paint) error {
	n := r.Normalize()
	if n.W == 0 && n.H == 0 {
		return nil
	}
	p.apply(dc)
	dc.DrawRectangle(n.X, n.Y, n.W, n.H)
	return fillAndStroke(dc, p)
}

func (c Circle) bounds(p Paint) image.Rectangle {
	return pad(c.Center.X-c.Radius, c.Center.Y-c.Radius, c.Center.X+c.Radius, c.Center.Y+c.Radius, p)
}

func (c Circle) render(dc *gg.Context, p Paint) error {
	if c.Radius <= 0 {
		return nil
	}
	p.apply(dc)
	dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
	return fillAndStroke(dc, p)
}

func (e Ellipse) bounds(p Paint) image.Rectangle {
	return pad(e.Center.X-e.RX, e.Center.Y-e.RY, e.Center.X+e.RX, e.Center.Y+e.RY, p)
}

func (e Ellipse) render(dc *gg.Context, p Paint) error {
	if e.RX <= 0 && e.RY <= 0 {
		return nil
	}
	p.apply(dc)
	dc.DrawEllipse(e.Center.X, e.Center.Y, e.RX, e.RY)
	return fillAndStroke(dc, p)
}

func (t Text) bounds(Paint) image.Rectangle {
	return unbounded
}

func (t Text) render(dc *gg.Context, p Paint) error {
	if t.Value == "" || t.Face == nil {
		return nil
	}
	p.apply(dc)
	dc.SetFont(t.Face)
	dc.DrawString(t.Value, t.At.X, t.At.Y)
	return nil
}

// fillAndStroke fills the current path when requested and always strokes it.
func fillAndStroke(dc *gg.Context, p Paint) error {
	if p.Filled {
		if err := dc.FillPreserve(); err != nil {
			dc.ClearPath()
			return err
		}
	}
	return dc.Stroke()
}

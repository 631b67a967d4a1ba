// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tool

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gg-paint/fill"
	"github.com/gogpu/gg-paint/surface"
)

// Point is a position in surface coordinates.
type Point = gg.Point

// Tool is the behavior behind a Kind. The set of implementations is closed:
// Freehand, Shape, TextAction, FillAction and Selector. Callers switch on the
// concrete type to reach the operation each variant supports.
type Tool interface {
	// Kind returns the tool identifier.
	Kind() Kind

	isTool()
}

// For returns the tool implementing k.
func For(k Kind) (Tool, bool) {
	switch {
	case k.IsFreehand():
		return Freehand{kind: k}, true
	case k.IsShape():
		return Shape{kind: k}, true
	case k == Text:
		return TextAction{}, true
	case k == Fill:
		return FillAction{}, true
	case k == Select:
		return Selector{}, true
	default:
		return nil, false
	}
}

// Freehand draws continuous strokes: Pencil, Brush and Eraser.
type Freehand struct {
	kind Kind
}

func (f Freehand) Kind() Kind { return f.kind }
func (Freehand) isTool()      {}

// Draw strokes the segment from -> to. The eraser paints bg at full opacity
// in place of the style color; the style itself is not modified.
func (f Freehand) Draw(s surface.Surface, st Style, bg color.NRGBA, from, to Point) error {
	p := st.StrokePaint(st.Color)
	p.Filled = false
	if f.kind == Eraser {
		p.Color = bg
		p.Opacity = 1
	}
	return s.Draw(surface.Line{From: from, To: to}, p)
}

// Shape previews a primitive between two points: Rect, Circle, Ellipse and
// Line.
type Shape struct {
	kind Kind
}

func (sh Shape) Kind() Kind { return sh.kind }
func (Shape) isTool()       {}

// Primitive returns the shape spanned by start and cur.
//
// Rect uses the points as opposite corners. Circle is centred on start with
// radius |cur - start|. Ellipse is centred on start with radii equal to the
// absolute coordinate deltas.
func (sh Shape) Primitive(start, cur Point) surface.Primitive {
	switch sh.kind {
	case Rect:
		return surface.Rectangle{X: start.X, Y: start.Y, W: cur.X - start.X, H: cur.Y - start.Y}.Normalize()
	case Circle:
		return surface.Circle{Center: start, Radius: math.Hypot(cur.X-start.X, cur.Y-start.Y)}
	case Ellipse:
		return surface.Ellipse{Center: start, RX: math.Abs(cur.X - start.X), RY: math.Abs(cur.Y - start.Y)}
	default:
		return surface.Line{From: start, To: cur}
	}
}

// Preview draws the shape onto s. It only adds pixels: callers restore the
// pre-gesture pixels first so that repeated previews do not accumulate.
func (sh Shape) Preview(s surface.Surface, st Style, start, cur Point) error {
	p := st.StrokePaint(st.Color)
	if sh.kind == Line {
		p.Filled = false
	}
	return s.Draw(sh.Primitive(start, cur), p)
}

// TextAction places a single line of text with its baseline at the point.
type TextAction struct{}

func (TextAction) Kind() Kind { return Text }
func (TextAction) isTool()    {}

// Apply renders value at the style's font and color. The text is NFC
// normalized first. Empty text is a no-op and reports false.
func (TextAction) Apply(s surface.Surface, st Style, fonts *FontBook, at Point, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	face, err := fonts.Face(st.Font)
	if err != nil {
		return false, err
	}
	p := surface.Paint{Color: st.Color, Width: 1, Opacity: st.Opacity}
	prim := surface.Text{At: at, Value: norm.NFC.String(value), Face: face}
	if err := s.Draw(prim, p); err != nil {
		return false, err
	}
	return true, nil
}

// FillAction flood-fills the region under a point with the style color.
// Opacity does not apply.
type FillAction struct{}

func (FillAction) Kind() Kind { return Fill }
func (FillAction) isTool()    {}

// Apply fills at the pixel containing at and returns the number of pixels
// changed.
func (FillAction) Apply(s surface.Surface, st Style, at Point) int {
	pt := image.Pt(int(math.Floor(at.X)), int(math.Floor(at.Y)))
	return fill.Flood(s.Pixels(), pt, st.Color)
}

// Selector draws the dashed selection outline.
type Selector struct{}

func (Selector) Kind() Kind { return Select }
func (Selector) isTool()    {}

// OutlinePaint is the paint used for selection outlines.
var OutlinePaint = surface.Paint{
	Color:   color.NRGBA{A: 255},
	Width:   1,
	Opacity: 1,
	Dash:    []float64{5, 5},
}

// Outline strokes r with a 1px dashed black line.
func (Selector) Outline(s surface.Surface, r image.Rectangle) error {
	r = r.Canon()
	if r.Empty() {
		return nil
	}
	rect := surface.Rectangle{
		X: float64(r.Min.X) + 0.5,
		Y: float64(r.Min.Y) + 0.5,
		W: float64(r.Dx() - 1),
		H: float64(r.Dy() - 1),
	}
	return s.Draw(rect, OutlinePaint)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image/color"

	"github.com/gogpu/gg"
)

// LineCap specifies the shape of stroke endpoints.
type LineCap uint8

const (
	// LineCapButt ends strokes flush with their endpoints.
	LineCapButt LineCap = iota

	// LineCapRound ends strokes with a semicircle. Freehand strokes use it
	// together with round joins.
	LineCapRound
)

// Paint describes how a primitive is rendered.
type Paint struct {
	// Color is used for both the outline and, when Filled, the interior.
	Color color.NRGBA

	// Width is the stroke width in pixels.
	Width float64

	// Opacity in [0, 1] scales the whole primitive for this draw only.
	Opacity float64

	// Filled also fills closed primitives with Color.
	Filled bool

	// Dash is an optional dash pattern (alternating dash and gap lengths).
	Dash []float64

	// Cap selects the endpoint shape. Round caps also round the joins.
	Cap LineCap
}

// NewPaint returns an opaque, unfilled, solid paint.
func NewPaint(c color.NRGBA, width float64) Paint {
	return Paint{Color: c, Width: width, Opacity: 1}
}

// WithOpacity returns a copy with the specified opacity.
func (p Paint) WithOpacity(opacity float64) Paint {
	p.Opacity = opacity
	return p
}

// WithFilled returns a copy with filling enabled or disabled.
func (p Paint) WithFilled(filled bool) Paint {
	p.Filled = filled
	return p
}

// WithDash returns a copy with the specified dash pattern.
func (p Paint) WithDash(lengths ...float64) Paint {
	p.Dash = append([]float64(nil), lengths...)
	return p
}

// WithCap returns a copy with the specified cap.
func (p Paint) WithCap(lineCap LineCap) Paint {
	p.Cap = lineCap
	return p
}

// opacity returns Opacity clamped to [0, 1].
func (p Paint) opacity() float64 {
	switch {
	case p.Opacity < 0:
		return 0
	case p.Opacity > 1:
		return 1
	default:
		return p.Opacity
	}
}

// apply configures dc for this paint and discards any pending path.
func (p Paint) apply(dc *gg.Context) {
	dc.ClearPath()
	dc.SetRGBA(
		float64(p.Color.R)/255,
		float64(p.Color.G)/255,
		float64(p.Color.B)/255,
		float64(p.Color.A)/255,
	)
	width := p.Width
	if width <= 0 {
		width = 1
	}
	dc.SetLineWidth(width)
	if p.Cap == LineCapRound {
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
	} else {
		dc.SetLineCap(gg.LineCapButt)
		dc.SetLineJoin(gg.LineJoinMiter)
	}
	if len(p.Dash) > 0 {
		dc.SetDash(p.Dash...)
	} else {
		dc.ClearDash()
	}
}

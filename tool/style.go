// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tool

import (
	"image/color"
	"math"

	"github.com/gogpu/gg-paint/surface"
)

// Style defaults.
const (
	DefaultStrokeWidth = 5
	DefaultFontSize    = 24
	DefaultFontFamily  = FamilyGo
)

// Font selects the face used by the text tool.
type Font struct {
	Family string
	Size   int
	Bold   bool
	Italic bool
}

// Style is the drawing state read by every tool invocation.
// Tools never modify it.
type Style struct {
	Color       color.NRGBA
	StrokeWidth int
	Opacity     float64
	Filled      bool
	Font        Font
}

// DefaultStyle returns an opaque black 5px unfilled style with the Go font
// at 24px.
func DefaultStyle() Style {
	return Style{
		Color:       color.NRGBA{A: 255},
		StrokeWidth: DefaultStrokeWidth,
		Opacity:     1,
		Font:        Font{Family: DefaultFontFamily, Size: DefaultFontSize},
	}
}

// Normalize clamps the style to valid ranges: stroke width and font size at
// least 1, opacity in [0, 1], and a non-empty font family.
func (s Style) Normalize() Style {
	if s.StrokeWidth < 1 {
		s.StrokeWidth = 1
	}
	if s.Font.Size < 1 {
		s.Font.Size = 1
	}
	switch {
	case math.IsNaN(s.Opacity):
		s.Opacity = 1
	case s.Opacity < 0:
		s.Opacity = 0
	case s.Opacity > 1:
		s.Opacity = 1
	}
	if s.Font.Family == "" {
		s.Font.Family = DefaultFontFamily
	}
	return s
}

// StrokePaint returns the paint for drawing with color c in this style.
func (s Style) StrokePaint(c color.NRGBA) surface.Paint {
	return surface.Paint{
		Color:   c,
		Width:   float64(s.StrokeWidth),
		Opacity: s.Opacity,
		Filled:  s.Filled,
		Cap:     surface.LineCapRound,
	}
}

// StyleUpdate is a partial style change. Nil fields are left unchanged.
type StyleUpdate struct {
	Color       *color.NRGBA
	StrokeWidth *int
	Opacity     *float64
	Filled      *bool
	FontFamily  *string
	FontSize    *int
	Bold        *bool
	Italic      *bool
}

// IsZero reports whether the update changes nothing.
func (u StyleUpdate) IsZero() bool {
	return u == StyleUpdate{}
}

// Apply returns s with u applied and normalized.
func (s Style) Apply(u StyleUpdate) Style {
	if u.Color != nil {
		s.Color = *u.Color
	}
	if u.StrokeWidth != nil {
		s.StrokeWidth = *u.StrokeWidth
	}
	if u.Opacity != nil {
		s.Opacity = *u.Opacity
	}
	if u.Filled != nil {
		s.Filled = *u.Filled
	}
	if u.FontFamily != nil {
		s.Font.Family = *u.FontFamily
	}
	if u.FontSize != nil {
		s.Font.Size = *u.FontSize
	}
	if u.Bold != nil {
		s.Font.Bold = *u.Bold
	}
	if u.Italic != nil {
		s.Font.Italic = *u.Italic
	}
	return s.Normalize()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package selection implements rectangular region selection: capture,
// move, cut, copy, paste and commit over a surface.Surface.
//
// The controller keeps a clean copy of the surface (the base) while a
// selection is live. Every preview restores the base and redraws on top of
// it, so previews never accumulate, and the dashed outline never reaches a
// history snapshot.
package selection

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/gogpu/gg-paint/surface"
	"github.com/gogpu/gg-paint/tool"
)

// Defaults.
const (
	DefaultMinSize = 5
)

// DefaultPasteOffset is where pasted pixels are placed.
var DefaultPasteOffset = image.Pt(50, 50)

// Selection is a live rectangular region.
type Selection struct {
	// Rect is the current position.
	Rect image.Rectangle

	// Origin is Rect at the start of the current move.
	Origin image.Rectangle

	// Pixels holds the captured region, origin (0, 0).
	Pixels *image.NRGBA

	// Floating is set once the pixels are lifted off the surface, by a move
	// or a paste.
	Floating bool
}

// Clipboard holds pixels for paste. The zero value is empty.
type Clipboard struct {
	pixels *image.NRGBA
}

// Set stores a copy of px.
func (c *Clipboard) Set(px *image.NRGBA) {
	c.pixels = imaging.Clone(px)
}

// Pixels returns a copy of the stored pixels, or nil when empty.
func (c *Clipboard) Pixels() *image.NRGBA {
	if c.pixels == nil {
		return nil
	}
	return imaging.Clone(c.pixels)
}

// Empty reports whether nothing has been stored.
func (c *Clipboard) Empty() bool {
	return c.pixels == nil || c.pixels.Rect.Empty()
}

// Size returns the stored dimensions.
func (c *Clipboard) Size() image.Point {
	if c.pixels == nil {
		return image.Point{}
	}
	return c.pixels.Rect.Size()
}

// Saver records the surface in undo history.
type Saver interface {
	Save(s surface.Surface) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithBackground sets the color left behind by cut and lift.
func WithBackground(c color.NRGBA) Option {
	return func(ctl *Controller) {
		ctl.bg = c
	}
}

// WithMinSize sets the size a drag must exceed in both dimensions.
func WithMinSize(n int) Option {
	return func(ctl *Controller) {
		if n >= 0 {
			ctl.minSize = n
		}
	}
}

// WithPasteOffset sets where Paste places the clipboard.
func WithPasteOffset(p image.Point) Option {
	return func(ctl *Controller) {
		ctl.pasteAt = p
	}
}

// Rect returns the pixel rectangle spanned by two points, rounded to the
// nearest pixel edges.
func Rect(a, b tool.Point) image.Rectangle {
	return image.Rect(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(b.X)), int(math.Round(b.Y)),
	).Canon()
}

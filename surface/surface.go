// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"context"
	"image"
	"image/color"
)

// Surface is the pixel buffer a paint session edits.
//
// All coordinates are surface pixels with the origin at the top-left.
// Region reads and writes are clipped to the surface bounds.
//
// Surfaces are NOT thread-safe. The owning session serialises access.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Bounds returns image.Rect(0, 0, Width(), Height()).
	Bounds() image.Rectangle

	// Region returns a copy of the pixels inside r. The returned image has
	// its origin at (0, 0). r is clipped to the surface bounds.
	Region(r image.Rectangle) *image.NRGBA

	// PutRegion replaces the pixels under px, placed with its top-left
	// corner at at. Pixels are copied, not blended.
	PutRegion(px *image.NRGBA, at image.Point)

	// FillRect replaces every pixel in r with c.
	FillRect(r image.Rectangle, c color.NRGBA)

	// Draw renders a primitive with the given paint.
	Draw(p Primitive, paint Paint) error

	// Clear fills the entire surface with bg.
	Clear(bg color.NRGBA)

	// Resize changes the surface dimensions. Existing pixels stay anchored
	// at the top-left, uncovered pixels are filled with bg.
	Resize(width, height int, bg color.NRGBA)

	// Image returns a copy of the whole surface.
	Image() *image.NRGBA

	// Pixels returns the live pixel buffer for in-place algorithms.
	// The buffer is invalidated by Resize and Restore.
	Pixels() *image.NRGBA

	// Snapshot serializes the surface.
	Snapshot() (Snapshot, error)

	// Restore replaces the surface contents (and dimensions) with a
	// snapshot. On failure the surface is left unchanged.
	Restore(ctx context.Context, snap Snapshot) error
}

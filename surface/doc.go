// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the single mutable pixel surface edited by a
// paint session.
//
// A Surface is a straight-alpha RGBA buffer with region read/write, solid
// rectangle fills, primitive drawing and snapshot serialization. The editing
// engine only talks to the Surface interface; ImageSurface is the CPU
// implementation, rasterising primitives with gg's software renderer into a
// gg.Pixmap it owns.
//
// # Primitives
//
// Draw takes one of a closed set of primitives (Line, Rectangle, Circle,
// Ellipse, Text) and a Paint:
//
//	s := surface.NewImageSurface(200, 200)
//	s.Clear(color.NRGBA{255, 255, 255, 255})
//	_ = s.Draw(surface.Rectangle{X: 20, Y: 20, W: 60, H: 60}, surface.Paint{
//	    Color:   color.NRGBA{A: 255},
//	    Width:   1,
//	    Opacity: 1,
//	    Filled:  true,
//	})
//
// Paint.Opacity applies to that single Draw call only. Partially opaque
// drawing is rendered into a scratch layer and composited over the surface.
//
// # Snapshots
//
// Snapshot encodes the whole surface with the surface's Codec (PNG by
// default). Restore decodes on a separate goroutine and swaps the pixels in
// only after decoding succeeds, so a failed restore leaves the surface
// untouched and returns an error wrapping ErrDecode.
package surface

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// ImageSurface is a CPU surface backed by a gg.Pixmap.
//
// Primitives are rasterised by a gg.Context drawing straight into the
// pixmap; region operations work on an *image.NRGBA view sharing the same
// bytes, so both paths always observe the same pixels.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	s.Clear(color.NRGBA{255, 255, 255, 255})
//	snap, _ := s.Snapshot()
type ImageSurface struct {
	pixmap *gg.Pixmap
	dc     *gg.Context
	view   *image.NRGBA

	// scratch receives partially opaque drawing before compositing.
	// Allocated on first use.
	scratch     *gg.Pixmap
	scratchDC   *gg.Context
	scratchView *image.NRGBA

	codec Codec
}

// Option configures an ImageSurface.
type Option func(*ImageSurface)

// WithCodec sets the codec used by Snapshot. The default is PNGCodec.
func WithCodec(c Codec) Option {
	return func(s *ImageSurface) {
		if c != nil {
			s.codec = c
		}
	}
}

// Ensure ImageSurface implements Surface.
var _ Surface = (*ImageSurface)(nil)

// NewImageSurface creates a transparent surface. Dimensions below 1 are
// clamped to 1.
func NewImageSurface(width, height int, opts ...Option) *ImageSurface {
	s := &ImageSurface{codec: PNGCodec{}}
	for _, opt := range opts {
		opt(s)
	}
	s.allocate(width, height)
	return s
}

// NewImageSurfaceFromImage creates a surface holding a copy of img.
func NewImageSurfaceFromImage(img image.Image, opts ...Option) *ImageSurface {
	b := img.Bounds()
	s := NewImageSurface(b.Dx(), b.Dy(), opts...)
	copyPixels(s.view, image.Point{}, imaging.Clone(img))
	return s
}

// allocate replaces the backing pixmap with a new transparent one.
func (s *ImageSurface) allocate(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	s.pixmap = gg.NewPixmap(width, height)
	s.dc = gg.NewContext(width, height, gg.WithPixmap(s.pixmap))
	s.view = nrgbaView(s.pixmap)
	s.scratch, s.scratchDC, s.scratchView = nil, nil, nil
}

// nrgbaView wraps pixmap bytes without copying. gg.Pixmap stores straight
// alpha, which is exactly the NRGBA layout.
func nrgbaView(pm *gg.Pixmap) *image.NRGBA {
	return &image.NRGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.pixmap.Width()
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.pixmap.Height()
}

// Bounds returns the surface rectangle.
func (s *ImageSurface) Bounds() image.Rectangle {
	return s.view.Rect
}

// Codec returns the snapshot codec.
func (s *ImageSurface) Codec() Codec {
	return s.codec
}

// Region implements Surface.
func (s *ImageSurface) Region(r image.Rectangle) *image.NRGBA {
	r = r.Canon().Intersect(s.view.Rect)
	if r.Empty() {
		return image.NewNRGBA(image.Rectangle{})
	}
	return imaging.Crop(s.view, r)
}

// PutRegion implements Surface.
func (s *ImageSurface) PutRegion(px *image.NRGBA, at image.Point) {
	if px == nil {
		return
	}
	copyPixels(s.view, at, px)
}

// copyPixels copies src into dst with src's top-left corner at at, clipped
// to dst. Bytes are copied verbatim so straight alpha survives unchanged.
func copyPixels(dst *image.NRGBA, at image.Point, src *image.NRGBA) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	sp := sb.Min.Add(r.Min.Sub(at))
	n := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		d := dst.PixOffset(r.Min.X, r.Min.Y+y)
		o := src.PixOffset(sp.X, sp.Y+y)
		copy(dst.Pix[d:d+n], src.Pix[o:o+n])
	}
}

// FillRect implements Surface.
func (s *ImageSurface) FillRect(r image.Rectangle, c color.NRGBA) {
	fillPixels(s.view, r, c)
}

func fillPixels(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Canon().Intersect(img.Rect)
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}

// Clear implements Surface.
func (s *ImageSurface) Clear(bg color.NRGBA) {
	s.FillRect(s.view.Rect, bg)
}

// Draw implements Surface.
//
// Opaque paints rasterise directly onto the surface. Otherwise the primitive
// is rendered into a transparent scratch layer which is then composited over
// the surface through a uniform alpha mask of the paint's opacity.
func (s *ImageSurface) Draw(p Primitive, paint Paint) error {
	if p == nil {
		return nil
	}
	opacity := paint.opacity()
	if opacity == 0 {
		return nil
	}
	if opacity == 1 && paint.Color.A == 255 {
		return p.render(s.dc, paint)
	}

	area := p.bounds(paint).Intersect(s.view.Rect)
	if area.Empty() {
		return nil
	}
	s.ensureScratch()
	fillPixels(s.scratchView, area, color.NRGBA{})
	if err := p.render(s.scratchDC, paint); err != nil {
		return err
	}
	mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(s.view, area, s.scratchView, area.Min, mask, image.Point{}, draw.Over)
	return nil
}

func (s *ImageSurface) ensureScratch() {
	if s.scratch != nil {
		return
	}
	w, h := s.Width(), s.Height()
	s.scratch = gg.NewPixmap(w, h)
	s.scratchDC = gg.NewContext(w, h, gg.WithPixmap(s.scratch))
	s.scratchView = nrgbaView(s.scratch)
}

// Resize implements Surface.
func (s *ImageSurface) Resize(width, height int, bg color.NRGBA) {
	if width == s.Width() && height == s.Height() {
		return
	}
	resized := imaging.Paste(imaging.New(width, height, bg), s.view, image.Point{})
	s.load(resized)
}

// Image implements Surface.
func (s *ImageSurface) Image() *image.NRGBA {
	return imaging.Clone(s.view)
}

// Pixels implements Surface.
func (s *ImageSurface) Pixels() *image.NRGBA {
	return s.view
}

// Snapshot implements Surface.
func (s *ImageSurface) Snapshot() (Snapshot, error) {
	return s.codec.Encode(s.view)
}

type decoded struct {
	img *image.NRGBA
	err error
}

// Restore implements Surface.
//
// Decoding runs on its own goroutine. If ctx is done first, Restore returns
// ctx.Err() and the surface keeps its current pixels. The abandoned decode
// reads only the in-memory snapshot, finishes on its own and its result is
// dropped.
func (s *ImageSurface) Restore(ctx context.Context, snap Snapshot) error {
	if snap.IsZero() {
		return ErrEmptySnapshot
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	codec, err := codecFor(snap, s.codec)
	if err != nil {
		return err
	}

	done := make(chan decoded, 1)
	go func() {
		img, err := codec.Decode(snap)
		done <- decoded{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case d := <-done:
		if d.err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, d.err)
		}
		s.load(d.img)
		return nil
	}
}

// load replaces the surface with img, reallocating when the size differs.
func (s *ImageSurface) load(img *image.NRGBA) {
	b := img.Bounds()
	if b.Dx() != s.Width() || b.Dy() != s.Height() {
		s.allocate(b.Dx(), b.Dy())
	}
	copyPixels(s.view, image.Point{}, img)
}

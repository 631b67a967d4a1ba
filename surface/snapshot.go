// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Snapshot errors.
var (
	// ErrDecode is returned when snapshot or image data cannot be decoded.
	ErrDecode = errors.New("surface: decode failed")

	// ErrEmptySnapshot is returned when restoring a zero Snapshot.
	ErrEmptySnapshot = errors.New("surface: empty snapshot")

	// ErrUnknownCodec is returned when a snapshot names an unregistered codec.
	ErrUnknownCodec = errors.New("surface: unknown snapshot codec")
)

// Snapshot is an opaque serialized copy of a whole surface.
type Snapshot struct {
	// Codec names the codec that produced Data.
	Codec string

	Width  int
	Height int
	Data   []byte
}

// IsZero reports whether the snapshot holds no data.
func (s Snapshot) IsZero() bool {
	return len(s.Data) == 0
}

// Equal reports whether two snapshots hold identical bytes.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Codec == other.Codec &&
		s.Width == other.Width &&
		s.Height == other.Height &&
		bytes.Equal(s.Data, other.Data)
}

// Codec serializes surface pixels for history snapshots.
type Codec interface {
	// Name identifies the codec inside a Snapshot.
	Name() string

	// Encode serializes img. img must not be retained.
	Encode(img *image.NRGBA) (Snapshot, error)

	// Decode reverses Encode.
	Decode(s Snapshot) (*image.NRGBA, error)
}

// PNGCodec stores snapshots as PNG, the same encoding an exported image uses.
type PNGCodec struct{}

// Name implements Codec.
func (PNGCodec) Name() string { return "png" }

// Encode implements Codec.
func (c PNGCodec) Encode(img *image.NRGBA) (Snapshot, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return Snapshot{}, fmt.Errorf("surface: encode PNG snapshot: %w", err)
	}
	b := img.Bounds()
	return Snapshot{Codec: c.Name(), Width: b.Dx(), Height: b.Dy(), Data: buf.Bytes()}, nil
}

// Decode implements Codec.
func (PNGCodec) Decode(s Snapshot) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(s.Data))
	if err != nil {
		return nil, err
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}
	// The encoder drops the alpha channel for opaque images.
	return imaging.Clone(img), nil
}

// RawCodec stores snapshots as uncompressed pixel bytes. It trades memory
// for speed on large surfaces.
type RawCodec struct{}

// Name implements Codec.
func (RawCodec) Name() string { return "raw" }

// Encode implements Codec.
func (c RawCodec) Encode(img *image.NRGBA) (Snapshot, error) {
	clone := imaging.Clone(img)
	b := clone.Bounds()
	return Snapshot{Codec: c.Name(), Width: b.Dx(), Height: b.Dy(), Data: clone.Pix}, nil
}

// Decode implements Codec.
func (RawCodec) Decode(s Snapshot) (*image.NRGBA, error) {
	if s.Width <= 0 || s.Height <= 0 || len(s.Data) != s.Width*s.Height*4 {
		return nil, fmt.Errorf("raw snapshot is %d bytes, want %dx%dx4", len(s.Data), s.Width, s.Height)
	}
	pix := make([]uint8, len(s.Data))
	copy(pix, s.Data)
	return &image.NRGBA{Pix: pix, Stride: s.Width * 4, Rect: image.Rect(0, 0, s.Width, s.Height)}, nil
}

// codecs lists the built-in codecs by name.
var codecs = map[string]Codec{
	PNGCodec{}.Name(): PNGCodec{},
	RawCodec{}.Name(): RawCodec{},
}

// codecFor returns the codec able to decode s.
func codecFor(s Snapshot, fallback Codec) (Codec, error) {
	if s.Codec == "" || (fallback != nil && s.Codec == fallback.Name()) {
		return fallback, nil
	}
	if c, ok := codecs[s.Codec]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, s.Codec)
}

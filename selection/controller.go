// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package selection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/gogpu/gg-paint/surface"
	"github.com/gogpu/gg-paint/tool"
)

// Controller owns the selection state of one surface.
//
// At most one selection is live. Methods that have nothing to act on are
// no-ops and report false. Controller is not safe for concurrent use.
type Controller struct {
	surf    surface.Surface
	history Saver

	bg      color.NRGBA
	minSize int
	pasteAt image.Point

	clipboard Clipboard
	sel       *Selection

	// base is the clean surface under a live selection or drag.
	base *image.NRGBA

	dragging  bool
	dragStart tool.Point
}

// New returns a controller editing s and saving into h.
func New(s surface.Surface, h Saver, opts ...Option) *Controller {
	c := &Controller{
		surf:    s,
		history: h,
		bg:      color.NRGBA{255, 255, 255, 255},
		minSize: DefaultMinSize,
		pasteAt: DefaultPasteOffset,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns a copy of the live selection.
func (c *Controller) Active() (Selection, bool) {
	if c.sel == nil {
		return Selection{}, false
	}
	return *c.sel, true
}

// Clipboard returns the controller clipboard.
func (c *Controller) Clipboard() *Clipboard {
	return &c.clipboard
}

// Dragging reports whether a region drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Contains reports whether p is inside the live selection.
func (c *Controller) Contains(p tool.Point) bool {
	if c.sel == nil {
		return false
	}
	r := c.sel.Rect
	return p.X >= float64(r.Min.X) && p.X < float64(r.Max.X) &&
		p.Y >= float64(r.Min.Y) && p.Y < float64(r.Max.Y)
}

// StartDrag commits any live selection and begins selecting a region
// at p.
func (c *Controller) StartDrag(p tool.Point) error {
	if _, err := c.Commit(); err != nil {
		return err
	}
	c.base = c.surf.Image()
	c.dragging = true
	c.dragStart = p
	return nil
}

// UpdateDrag redraws the dashed outline from the drag start to p.
func (c *Controller) UpdateDrag(p tool.Point) error {
	if !c.dragging {
		return nil
	}
	c.restoreBase()
	return tool.Selector{}.Outline(c.surf, Rect(c.dragStart, p))
}

// EndDrag finishes the drag at p. The region, clipped to the surface, is
// captured when both dimensions exceed the minimum size; otherwise the drag
// is discarded. It reports whether a selection was created.
func (c *Controller) EndDrag(p tool.Point) (bool, error) {
	if !c.dragging {
		return false, nil
	}
	c.dragging = false
	c.restoreBase()

	r := Rect(c.dragStart, p).Intersect(c.surf.Bounds())
	if r.Dx() <= c.minSize || r.Dy() <= c.minSize {
		c.base = nil
		return false, nil
	}
	c.sel = &Selection{
		Rect:   r,
		Origin: r,
		Pixels: c.surf.Region(r),
	}
	return true, c.outline()
}

// BeginMove starts moving the selection when p is inside it. A static
// selection is lifted first: its area is filled with the background in
// the base and the selection becomes floating.
func (c *Controller) BeginMove(p tool.Point) bool {
	if !c.Contains(p) {
		return false
	}
	if !c.sel.Floating {
		c.restoreBase()
		c.surf.FillRect(c.sel.Rect, c.bg)
		c.base = c.surf.Image()
		c.sel.Floating = true
	}
	c.sel.Origin = c.sel.Rect
	return true
}

// UpdateMove places the floating pixels at the move origin plus delta.
func (c *Controller) UpdateMove(delta image.Point) error {
	if c.sel == nil || !c.sel.Floating {
		return nil
	}
	c.sel.Rect = c.sel.Origin.Add(delta)
	c.composite()
	return c.outline()
}

// EndMove fixes the selection at its current position and saves history.
func (c *Controller) EndMove() error {
	if c.sel == nil {
		return nil
	}
	c.sel.Origin = c.sel.Rect
	c.composite()
	if err := c.history.Save(c.surf); err != nil {
		return fmt.Errorf("selection: move: %w", err)
	}
	return c.outline()
}

// Commit merges the live selection into the surface and clears selection
// state. History is saved only when the selection was floating. It
// reports whether a selection was committed.
func (c *Controller) Commit() (bool, error) {
	if c.sel == nil {
		c.dragging = false
		c.base = nil
		return false, nil
	}
	floating := c.sel.Floating
	c.composite()
	c.Reset()
	if floating {
		if err := c.history.Save(c.surf); err != nil {
			return true, fmt.Errorf("selection: commit: %w", err)
		}
	}
	return true, nil
}

// Cut moves the selected pixels to the clipboard, leaves the background
// in their place and saves history.
func (c *Controller) Cut() (bool, error) {
	if c.sel == nil || c.sel.Pixels == nil {
		return false, nil
	}
	c.clipboard.Set(c.sel.Pixels)
	c.restoreBase()
	if !c.sel.Floating {
		c.surf.FillRect(c.sel.Rect, c.bg)
	}
	c.Reset()
	if err := c.history.Save(c.surf); err != nil {
		return true, fmt.Errorf("selection: cut: %w", err)
	}
	return true, nil
}

// Copy stores the selected pixels in the clipboard.
func (c *Controller) Copy() bool {
	if c.sel == nil || c.sel.Pixels == nil {
		return false
	}
	c.clipboard.Set(c.sel.Pixels)
	return true
}

// Paste commits any live selection and places the clipboard as a new
// floating selection at the paste offset. History is not saved until the
// pasted selection is moved or committed. The clipboard is unchanged.
func (c *Controller) Paste() (bool, error) {
	if c.clipboard.Empty() {
		return false, nil
	}
	if _, err := c.Commit(); err != nil {
		return false, err
	}
	px := c.clipboard.Pixels()
	r := image.Rectangle{Min: c.pasteAt, Max: c.pasteAt.Add(px.Rect.Size())}

	c.base = c.surf.Image()
	c.sel = &Selection{Rect: r, Origin: r, Pixels: px, Floating: true}
	c.composite()
	return true, c.outline()
}

// Reset drops the selection and any drag without touching the surface.
func (c *Controller) Reset() {
	c.sel = nil
	c.base = nil
	c.dragging = false
}

// Clean returns a copy of the surface as it would be after Commit, without
// the outline.
func (c *Controller) Clean() *image.NRGBA {
	if c.base == nil {
		return c.surf.Image()
	}
	if c.sel == nil || !c.sel.Floating {
		return imaging.Clone(c.base)
	}
	return imaging.Paste(c.base, c.sel.Pixels, c.sel.Rect.Min)
}

// restoreBase puts the clean pixels back.
func (c *Controller) restoreBase() {
	if c.base != nil {
		c.surf.PutRegion(c.base, image.Point{})
	}
}

// composite restores the base and, for a floating selection, places its
// pixels. The floating pixels replace what is below them.
func (c *Controller) composite() {
	c.restoreBase()
	if c.sel != nil && c.sel.Floating {
		c.surf.PutRegion(c.sel.Pixels, c.sel.Rect.Min)
	}
}

func (c *Controller) outline() error {
	if c.sel == nil {
		return nil
	}
	return tool.Selector{}.Outline(c.surf, c.sel.Rect)
}

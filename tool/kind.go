// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tool

import (
	"fmt"
	"strings"
)

// Kind identifies a tool.
type Kind uint8

const (
	// Pencil draws thin freehand strokes.
	Pencil Kind = iota

	// Brush draws freehand strokes.
	Brush

	// Eraser paints freehand strokes in the background color.
	Eraser

	// Rect draws a rectangle between two opposite corners.
	Rect

	// Circle draws a circle whose radius is the drag distance.
	Circle

	// Ellipse draws an ellipse whose radii are the drag deltas.
	Ellipse

	// Line draws a straight segment.
	Line

	// Text places a line of text.
	Text

	// Fill flood-fills a region.
	Fill

	// Select captures, moves and transfers rectangular regions.
	Select
)

var kindNames = [...]string{
	Pencil:  "pencil",
	Brush:   "brush",
	Eraser:  "eraser",
	Rect:    "rect",
	Circle:  "circle",
	Ellipse: "ellipse",
	Line:    "line",
	Text:    "text",
	Fill:    "fill",
	Select:  "select",
}

// Kinds lists every tool in toolbar order.
func Kinds() []Kind {
	return []Kind{Pencil, Brush, Eraser, Rect, Circle, Ellipse, Line, Text, Fill, Select}
}

// String returns the lowercase tool name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports whether k names a known tool.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// IsFreehand reports whether k draws continuously along the gesture.
func (k Kind) IsFreehand() bool {
	return k == Pencil || k == Brush || k == Eraser
}

// IsShape reports whether k previews a shape between two points.
func (k Kind) IsShape() bool {
	return k == Rect || k == Circle || k == Ellipse || k == Line
}

// ParseKind returns the Kind named s (case-insensitive).
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Package paint is a raster paint editing engine built on gg.
//
// # Overview
//
// A Session owns a pixel surface and edits it in response to abstract
// gestures (start, move, end) in surface coordinates. It keeps the active
// tool and style, a single live selection with a clipboard, and a bounded
// undo/redo history of surface snapshots. Windows and toolbars are left to
// the caller; package input maps pointer and touch events to gestures.
//
// # Quick Start
//
//	s, err := paint.New(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.SetTool(tool.Rect)
//	s.GestureStart(gg.Pt(20, 20))
//	s.GestureMove(gg.Pt(80, 80))
//	s.GestureEnd(gg.Pt(80, 80))
//	s.Export(f, "png")
//
// # Gesture States
//
// Sessions move between Idle, Drawing, SelectingRegion, MovingSelection
// and TextEditing. Tool and style changes are accepted only in Idle and
// ignored otherwise. Gestures that make no sense in the current state are
// ignored, as are copy, cut and paste with nothing to act on.
//
// # Tools
//
// Pencil, Brush and Eraser draw freehand strokes. Rect, Circle, Ellipse and
// Line preview a shape from the gesture start to the pointer, redrawn from
// the pre-gesture pixels on every move. Fill flood-fills on gesture start.
// Text enters TextEditing and emits EventTextInput; the caller collects
// the text and calls SubmitText or CancelText. Select drags out a region
// or moves the live selection.
//
// # History
//
// Every completed gesture, clear, resize and import appends a snapshot.
// Saving after an undo discards the redo entries. Snapshots never contain
// selection outlines or previews.
//
// # Sub-packages
//
//   - surface: pixel buffer contract and gg-backed implementation
//   - tool: tool kinds, styles and fonts
//   - selection: region selection and clipboard
//   - history: bounded undo/redo
//   - fill: flood fill
//   - codec: import and export formats
//   - input: pointer mapping and zoom
package paint

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

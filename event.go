package paint

import (
	"fmt"
	"image"

	"github.com/gogpu/gg-paint/tool"
)

// EventKind identifies what changed.
type EventKind uint8

const (
	// EventTool reports a tool change.
	EventTool EventKind = iota

	// EventStyle reports a style change.
	EventStyle

	// EventState reports a gesture state transition.
	EventState

	// EventSelection reports a selection created, moved, committed or
	// dropped.
	EventSelection

	// EventHistory reports a save, undo or redo.
	EventHistory

	// EventTextInput asks the caller to open a text field at Event.At.
	EventTextInput

	// EventSurface reports a clear, resize or import.
	EventSurface
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventTool:
		return "tool"
	case EventStyle:
		return "style"
	case EventState:
		return "state"
	case EventSelection:
		return "selection"
	case EventHistory:
		return "history"
	case EventTextInput:
		return "text-input"
	case EventSurface:
		return "surface"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// Event is delivered to listeners after the operation that caused it has
// finished and the session lock is released.
type Event struct {
	Kind    EventKind
	Session string
	State   State
	Tool    tool.Kind
	Style   tool.Style

	// At is the text field position for EventTextInput.
	At tool.Point

	// Selection is the live selection rectangle, empty when none.
	Selection image.Rectangle

	CanUndo bool
	CanRedo bool
	Size    image.Point
}

// Listener receives session events. Listeners may call back into the
// session.
type Listener func(Event)

package paint

import "fmt"

// State is the gesture state of a Session.
type State uint8

const (
	// Idle accepts tool and style changes and starts gestures.
	Idle State = iota

	// Drawing is a freehand stroke or shape drag in progress.
	Drawing

	// SelectingRegion is a selection drag in progress.
	SelectingRegion

	// MovingSelection is a drag of the live selection.
	MovingSelection

	// TextEditing waits for SubmitText or CancelText.
	TextEditing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Drawing:
		return "Drawing"
	case SelectingRegion:
		return "SelectingRegion"
	case MovingSelection:
		return "MovingSelection"
	case TextEditing:
		return "TextEditing"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

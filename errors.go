package paint

import "errors"

var (
	// ErrBusy is returned when an operation needs the session to be idle
	// but a gesture or text entry is in progress.
	ErrBusy = errors.New("paint: session busy")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("paint: session closed")
)

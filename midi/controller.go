package midi

import (
	"grand-staff/debug"
	"grand-staff/notation"
)

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerKeyboard ControllerType = iota
)

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Key presses and releases, closed when the controller closes
	NoteEvents() <-chan NoteEvent

	// Lifecycle
	Close() error
}

// NoteSink receives decoded notes. staff.Display satisfies it.
type NoteSink interface {
	AddPitch(p notation.Pitch)
	RemovePitch(p notation.Pitch)
	Clear()
}

// Forward pumps a controller's notes into sink until the controller closes.
func Forward(ctrl Controller, sink NoteSink) {
	for ev := range ctrl.NoteEvents() {
		switch {
		case ev.AllOff:
			sink.Clear()
		case ev.On:
			sink.AddPitch(notation.Pitch(ev.Note))
		default:
			sink.RemovePitch(notation.Pitch(ev.Note))
		}
	}
	debug.Log("midi", "controller %s closed", ctrl.ID())
}

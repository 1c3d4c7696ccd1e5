package midi

// CC 123 is "all notes off"
const ccAllNotesOff uint8 = 123

// NoteEvent is sent when a key goes down or up on a keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
	On       bool
	AllOff   bool // release every key, Note is unused
}

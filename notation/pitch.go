// Package notation converts sounding pitches into grand-staff positions.
//
// Everything here is pure: callers pass a sorted snapshot of pitches and a
// spelling mode, and get fresh layout results back on every call.
package notation

import "fmt"

// Pitch is a MIDI note number.
type Pitch int

// 88-key range
const (
	MinPitch Pitch = 21
	MaxPitch Pitch = 108
)

// MiddleC is the lowest pitch drawn on the treble staff.
const MiddleC Pitch = 60

// Valid reports whether p is inside the keyboard range.
func (p Pitch) Valid() bool {
	return p >= MinPitch && p <= MaxPitch
}

// Class returns the pitch class (0 = C).
func (p Pitch) Class() int {
	pc := int(p) % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// Octave returns the scientific octave number (60 is C4).
func (p Pitch) Octave() int {
	return int(p)/12 - 1
}

// NeedsAccidental reports whether p is a black key. Both spelling modes draw
// an accidental for these.
func NeedsAccidental(p Pitch) bool {
	switch p.Class() {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// Name spells p for display, e.g. "C#4" or "Db4".
func Name(p Pitch, mode SpellingMode) string {
	letter := LetterOf(p, mode)
	suffix := ""
	if NeedsAccidental(p) {
		if mode == AllFlats {
			suffix = "b"
		} else {
			suffix = "#"
		}
	}
	// B# / Cb never occur, so the octave follows the pitch number.
	return fmt.Sprintf("%s%s%d", letter, suffix, p.Octave())
}

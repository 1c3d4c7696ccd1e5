package notation

import "fmt"

// Clef is one half of the grand staff.
type Clef int

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	if c == Bass {
		return "bass"
	}
	return "treble"
}

func (c Clef) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clef) UnmarshalText(text []byte) error {
	switch string(text) {
	case "treble":
		*c = Treble
	case "bass":
		*c = Bass
	default:
		return fmt.Errorf("unknown clef %q", text)
	}
	return nil
}

// StaffLineSteps are the five lines of either staff, top first, in steps
// from the clef reference.
var StaffLineSteps = [5]int{5, 3, 1, -1, -3}

// Reference is the pitch whose vertical anchor the clef is measured from:
// A440 on the treble staff, C3 on the bass staff.
func (c Clef) Reference() Pitch {
	if c == Bass {
		return 48
	}
	return 69
}

// ClefOf places middle C and above on the treble staff.
func ClefOf(p Pitch) Clef {
	if p >= MiddleC {
		return Treble
	}
	return Bass
}

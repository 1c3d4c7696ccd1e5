package notation

import (
	"errors"
	"fmt"
	"strings"
)

// SpellingMode picks how black keys are named.
type SpellingMode int

const (
	AllSharps SpellingMode = iota
	AllFlats
)

// ErrUnknownSpelling is returned when a spelling mode string can't be parsed.
var ErrUnknownSpelling = errors.New("unknown spelling mode")

func (m SpellingMode) String() string {
	switch m {
	case AllSharps:
		return "sharps"
	case AllFlats:
		return "flats"
	}
	return fmt.Sprintf("SpellingMode(%d)", int(m))
}

// Toggle returns the other mode.
func (m SpellingMode) Toggle() SpellingMode {
	if m == AllFlats {
		return AllSharps
	}
	return AllFlats
}

// ParseSpellingMode accepts "sharps"/"flats" (and the singular forms).
func ParseSpellingMode(s string) (SpellingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sharps", "sharp", "all_sharps", "#":
		return AllSharps, nil
	case "flats", "flat", "all_flats", "b":
		return AllFlats, nil
	}
	return AllSharps, fmt.Errorf("%w: %q", ErrUnknownSpelling, s)
}

func (m SpellingMode) MarshalText() ([]byte, error) {
	if m != AllSharps && m != AllFlats {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpelling, int(m))
	}
	return []byte(m.String()), nil
}

func (m *SpellingMode) UnmarshalText(text []byte) error {
	mode, err := ParseSpellingMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Letter is a diatonic note name. The staff line or space a note sits on
// depends on its letter, not on its MIDI number.
type Letter int

const (
	A Letter = iota
	B
	C
	D
	E
	F
	G
	InvalidLetter
)

// LettersPerOctave is the number of staff steps in an octave.
const LettersPerOctave = 7

func (l Letter) String() string {
	if l < A || l >= InvalidLetter {
		return "?"
	}
	return string(rune('A' + int(l)))
}

// natural letter for each pitch class, and the letter used for black keys
// when spelled up (flats)
var (
	sharpLetters = [12]Letter{C, C, D, D, E, F, F, G, G, A, A, B}
	flatLetters  = [12]Letter{C, D, D, E, E, F, G, G, A, A, B, B}
)

// LetterOf spells p under mode. Black keys take the letter below for
// AllSharps and the letter above for AllFlats.
func LetterOf(p Pitch, mode SpellingMode) Letter {
	pc := p.Class()
	switch mode {
	case AllSharps:
		return sharpLetters[pc]
	case AllFlats:
		return flatLetters[pc]
	}
	return InvalidLetter
}

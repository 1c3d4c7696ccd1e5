package notation

import "fmt"

// Glyph identifies an accidental symbol.
type Glyph int

const (
	Sharp Glyph = iota
	Flat
)

func (g Glyph) String() string {
	if g == Flat {
		return "flat"
	}
	return "sharp"
}

func (g Glyph) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Glyph) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sharp":
		*g = Sharp
	case "flat":
		*g = Flat
	default:
		return fmt.Errorf("unknown accidental %q", text)
	}
	return nil
}

// GlyphFor is the accidental drawn for black keys under mode.
func GlyphFor(mode SpellingMode) Glyph {
	if mode == AllFlats {
		return Flat
	}
	return Sharp
}

// Column is where one accidental goes.
type Column struct {
	Index int   `json:"index"` // position in the snapshot, matches Layout output
	Pitch Pitch `json:"pitch"`
	Glyph Glyph `json:"glyph"`
	X     int   `json:"x"`
	Depth int   `json:"depth"` // 0 for the accidental nearest the note head
}

// Stacking controls the accidental staircase.
type Stacking struct {
	BaseX   int // x of the first column in a cluster
	DeltaX  int // added for each further accidental in the cluster
	MaxSpan int // steps from the cluster's top accidental that still stack
}

// DefaultStacking matches the default staff geometry.
var DefaultStacking = Stacking{BaseX: 66, DeltaX: -10, MaxSpan: 4}

// Accidentals walks an ascending snapshot from the top down and assigns each
// black key a column. Accidentals within MaxSpan steps of the highest black
// key of their cluster (and on the same staff) step outward by DeltaX.
// Results are in descending pitch order.
func Accidentals(pitches []Pitch, mode SpellingMode, st Stacking) []Column {
	var out []Column

	var anchor Pitch
	haveAnchor := false
	x := st.BaseX
	depth := 0
	glyph := GlyphFor(mode)

	for i := len(pitches) - 1; i >= 0; i-- {
		p := pitches[i]
		if !NeedsAccidental(p) {
			continue
		}

		if !haveAnchor ||
			abs(Distance(p, anchor, mode)) > st.MaxSpan ||
			ClefOf(p) != ClefOf(anchor) {
			anchor = p
			haveAnchor = true
			x = st.BaseX
			depth = 0
		} else {
			x += st.DeltaX
			depth++
		}

		out = append(out, Column{Index: i, Pitch: p, Glyph: glyph, X: x, Depth: depth})
	}
	return out
}

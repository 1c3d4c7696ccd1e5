// Package render turns a pitch snapshot into an ordered list of drawing
// instructions in pixel coordinates. It never touches pixels itself.
package render

import "grand-staff/notation"

// Geometry holds the hard-coded offsets that put glyphs in the right spots.
type Geometry struct {
	StaffY    int     `yaml:"staffY" json:"staffY"`       // staff image y on the surface
	StepY     float64 `yaml:"stepY" json:"stepY"`         // pixels per line/space
	NoteX     int     `yaml:"noteX" json:"noteX"`         // x of every note head
	NoteShift int     `yaml:"noteShift" json:"noteShift"` // x shift for a note a second above its neighbour

	TrebleAnchor int `yaml:"trebleAnchor" json:"trebleAnchor"` // y of A440, relative to StaffY
	BassAnchor   int `yaml:"bassAnchor" json:"bassAnchor"`     // y of C3, relative to StaffY

	LedgerLength int `yaml:"ledgerLength" json:"ledgerLength"`

	AccidentalDelta int `yaml:"accidentalDelta" json:"accidentalDelta"` // x step between stacked accidentals
	AccidentalSpan  int `yaml:"accidentalSpan" json:"accidentalSpan"`   // max steps between stacked accidentals

	SharpOffset Point `yaml:"sharpOffset" json:"sharpOffset"`
	FlatOffset  Point `yaml:"flatOffset" json:"flatOffset"`
}

// Point is a pixel offset.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// DefaultGeometry fits a 100px tall grand staff drawn 65px down the surface.
func DefaultGeometry() Geometry {
	return Geometry{
		StaffY:          65,
		StepY:           3.5,
		NoteX:           66,
		NoteShift:       14,
		TrebleAnchor:    20,
		BassAnchor:      83,
		LedgerLength:    15,
		AccidentalDelta: -10,
		AccidentalSpan:  4,
		SharpOffset:     Point{X: -22, Y: -12},
		FlatOffset:      Point{X: -18, Y: -13},
	}
}

// Anchor is the y of the clef's reference pitch.
func (g Geometry) Anchor(c notation.Clef) int {
	if c == notation.Bass {
		return g.StaffY + g.BassAnchor
	}
	return g.StaffY + g.TrebleAnchor
}

// NoteY is the note head y for a note d steps from the clef reference.
func (g Geometry) NoteY(c notation.Clef, d int) int {
	return int(float64(g.Anchor(c)) - float64(d)*g.StepY)
}

// LedgerStart returns the y of the first ledger line and the y step to the
// next one, for lines above or below the clef's staff.
func (g Geometry) LedgerStart(c notation.Clef, above bool) (y, dy int) {
	anchor := float64(g.Anchor(c))
	if above {
		return int(anchor - g.StepY*7 + 7), int(-g.StepY * 2)
	}
	return int(anchor + g.StepY*5 + 6), int(g.StepY * 2)
}

// Stacking is the accidental staircase for this geometry.
func (g Geometry) Stacking() notation.Stacking {
	return notation.Stacking{BaseX: g.NoteX, DeltaX: g.AccidentalDelta, MaxSpan: g.AccidentalSpan}
}

// GlyphOffset is where an accidental sits relative to its column and note y.
func (g Geometry) GlyphOffset(gl notation.Glyph) Point {
	if gl == notation.Flat {
		return g.FlatOffset
	}
	return g.SharpOffset
}

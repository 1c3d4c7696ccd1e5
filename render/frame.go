package render

import "grand-staff/notation"

// Op is the kind of drawing instruction.
type Op string

const (
	OpImage Op = "image"
	OpLine  Op = "line"
)

// Instruction is one draw call. Images use Glyph, X, Y (top-left) plus the
// scaled size; lines use X, Y to X2, Y2. Later instructions may overlap
// earlier ones.
type Instruction struct {
	Op     Op        `json:"op"`
	Glyph  GlyphKind `json:"glyph,omitempty"`
	Handle string    `json:"handle,omitempty"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	X2     int       `json:"x2,omitempty"`
	Y2     int       `json:"y2,omitempty"`
	W      int       `json:"w,omitempty"`
	H      int       `json:"h,omitempty"`
}

// Frame is everything one redraw produces.
type Frame struct {
	Mode         notation.SpellingMode `json:"mode"`
	Pitches      []notation.Pitch      `json:"pitches"`
	Positions    []notation.Position   `json:"positions"`
	Accidentals  []notation.Column     `json:"accidentals"`
	Instructions []Instruction         `json:"instructions"`
}

// Renderer lays out snapshots with a fixed geometry and glyph set.
type Renderer struct {
	geom   Geometry
	glyphs GlyphSet
}

// NewRenderer scales the glyphs once up front.
func NewRenderer(geom Geometry, glyphs GlyphSet) *Renderer {
	return &Renderer{geom: geom, glyphs: glyphs.Scaled()}
}

// Frame lays out an ascending snapshot: staff background first, then each
// note head followed by its ledger lines, then accidentals.
func (r *Renderer) Frame(pitches []notation.Pitch, mode notation.SpellingMode) Frame {
	g := r.geom
	positions := notation.Layout(pitches, mode)

	out := make([]Instruction, 0, 1+len(positions)*2)
	out = append(out, r.image(GlyphStaff, 0, g.StaffY))

	noteYs := make([]int, len(positions))
	for i, pos := range positions {
		x := g.NoteX
		if pos.Offset {
			x += g.NoteShift
		}
		y := g.NoteY(pos.Clef, pos.Distance)
		noteYs[i] = y
		out = append(out, r.image(GlyphNote, x, y))

		// Ledger lines stay under the unshifted head.
		startX := g.NoteX - 1
		endX := startX + g.LedgerLength
		ly, dy := g.LedgerStart(pos.Clef, pos.LedgersAbove())
		for n := 0; n < pos.Ledgers; n++ {
			out = append(out, Instruction{Op: OpLine, X: startX, Y: ly, X2: endX, Y2: ly})
			ly += dy
		}
	}

	cols := notation.Accidentals(pitches, mode, g.Stacking())
	for _, c := range cols {
		off := g.GlyphOffset(c.Glyph)
		kind := GlyphSharp
		if c.Glyph == notation.Flat {
			kind = GlyphFlat
		}
		out = append(out, r.image(kind, c.X+off.X, noteYs[c.Index]+off.Y))
	}

	return Frame{
		Mode:         mode,
		Pitches:      pitches,
		Positions:    positions,
		Accidentals:  cols,
		Instructions: out,
	}
}

func (r *Renderer) image(k GlyphKind, x, y int) Instruction {
	gl := r.glyphs.get(k)
	return Instruction{Op: OpImage, Glyph: k, Handle: gl.Handle, X: x, Y: y, W: gl.Width, H: gl.Height}
}

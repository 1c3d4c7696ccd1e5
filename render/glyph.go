package render

import "math"

// GlyphKind names the images the staff is built from.
type GlyphKind string

const (
	GlyphStaff GlyphKind = "staff"
	GlyphNote  GlyphKind = "note"
	GlyphSharp GlyphKind = "sharp"
	GlyphFlat  GlyphKind = "flat"
)

// Target heights the images are scaled to.
const (
	StaffHeight = 100
	NoteHeight  = 13
	SharpHeight = 37
	FlatHeight  = 28
)

// Glyph is an opaque image handle supplied by the asset loader, with its
// natural size. Handle means nothing to the core.
type Glyph struct {
	Handle string `json:"handle"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Scaled resizes g to the given height, keeping its aspect ratio.
func (g Glyph) Scaled(height int) Glyph {
	if g.Height <= 0 {
		return Glyph{Handle: g.Handle, Width: g.Width, Height: height}
	}
	scale := float64(height) / float64(g.Height)
	return Glyph{
		Handle: g.Handle,
		Width:  int(math.Round(float64(g.Width) * scale)),
		Height: height,
	}
}

// GlyphSet is the four images a frame needs.
type GlyphSet struct {
	Staff Glyph
	Note  Glyph
	Sharp Glyph
	Flat  Glyph
}

// DefaultGlyphs describes the stock images at their natural sizes.
func DefaultGlyphs() GlyphSet {
	return GlyphSet{
		Staff: Glyph{Handle: "Grand_Staff.png", Width: 1000, Height: 500},
		Note:  Glyph{Handle: "Whole_Note.png", Width: 120, Height: 78},
		Sharp: Glyph{Handle: "Sharp.png", Width: 90, Height: 240},
		Flat:  Glyph{Handle: "Flat.png", Width: 80, Height: 200},
	}
}

// Scaled resizes every glyph to its drawing height.
func (s GlyphSet) Scaled() GlyphSet {
	return GlyphSet{
		Staff: s.Staff.Scaled(StaffHeight),
		Note:  s.Note.Scaled(NoteHeight),
		Sharp: s.Sharp.Scaled(SharpHeight),
		Flat:  s.Flat.Scaled(FlatHeight),
	}
}

func (s GlyphSet) get(k GlyphKind) Glyph {
	switch k {
	case GlyphStaff:
		return s.Staff
	case GlyphNote:
		return s.Note
	case GlyphSharp:
		return s.Sharp
	case GlyphFlat:
		return s.Flat
	}
	return Glyph{}
}

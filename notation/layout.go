package notation

// Position is where one sounding pitch lands on the grand staff.
type Position struct {
	Pitch    Pitch `json:"pitch"`
	Clef     Clef  `json:"clef"`
	Distance int   `json:"distance"` // staff steps from the clef reference, positive is up
	Ledgers  int   `json:"ledgers"`  // ledger lines between the staff and the note
	Offset   bool  `json:"offset"`
	OnLine   bool  `json:"onLine"` // head sits on a staff or ledger line
}

// LedgersAbove reports which side of the staff the ledger lines go.
func (p Position) LedgersAbove() bool {
	return p.Distance > 0
}

// LedgerLines is the number of ledger lines for a note d steps from its clef
// reference. The top staff line is 5 steps above either reference and the
// bottom line 3 below.
func LedgerLines(d int) int {
	var n int
	if d > 0 {
		n = (d - 5) / 2
	} else {
		n = (-d - 3) / 2
	}
	return max(n, 0)
}

// Layout positions every pitch of an ascending snapshot. A note a second or
// less above the previous one on the same staff is shifted right, unless the
// previous note was itself shifted.
func Layout(pitches []Pitch, mode SpellingMode) []Position {
	out := make([]Position, 0, len(pitches))

	var prev Pitch
	havePrev := false
	prevOffset := false

	for _, p := range pitches {
		clef := ClefOf(p)

		// Clear out the previous note when switching clefs.
		if havePrev && ClefOf(prev) != clef {
			havePrev = false
			prevOffset = false
		}

		d := Distance(p, clef.Reference(), mode)

		offset := false
		if havePrev && !prevOffset && abs(Distance(p, prev, mode)) < 2 {
			offset = true
		}

		out = append(out, Position{
			Pitch:    p,
			Clef:     clef,
			Distance: d,
			Ledgers:  LedgerLines(d),
			Offset:   offset,
			OnLine:   OnLine(p, mode),
		})

		prev = p
		havePrev = true
		prevOffset = offset
	}
	return out
}

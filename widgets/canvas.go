package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grand-staff/notation"
	"grand-staff/render"
	"grand-staff/theme"
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellStaff
	cellLedger
	cellNote
	cellAccidental
	cellLabel
)

type cell struct {
	r    rune
	kind cellKind
}

// staff rows always cover the five lines plus one ledger line each way
const (
	minTop    = 7
	minBottom = -5
)

// Canvas draws a frame's layout as text, one row per staff step.
type Canvas struct {
	Theme *theme.Theme
}

// NewCanvas creates a canvas with the given theme.
func NewCanvas(th *theme.Theme) *Canvas {
	return &Canvas{Theme: th}
}

type grid struct {
	rows  [][]cell
	width int
}

func newGrid(height, width int) *grid {
	g := &grid{rows: make([][]cell, height), width: width}
	for i := range g.rows {
		g.rows[i] = make([]cell, width)
		for j := range g.rows[i] {
			g.rows[i][j] = cell{r: ' '}
		}
	}
	return g
}

func (g *grid) set(row, col int, r rune, kind cellKind) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.width {
		return
	}
	g.rows[row][col] = cell{r: r, kind: kind}
}

// Render draws both staves, treble on top.
func (c *Canvas) Render(f render.Frame) string {
	sym := c.Theme.Symbols

	depth := 0
	for _, a := range f.Accidentals {
		depth = max(depth, a.Depth+1)
	}
	// label, gap, accidental columns, gap, two head columns, tail
	accStart := 3
	noteCol := accStart + depth*2 + 1
	width := noteCol + 2 + 4

	var sections []string
	for _, clef := range []notation.Clef{notation.Treble, notation.Bass} {
		top, bottom := minTop, minBottom
		for _, p := range f.Positions {
			if p.Clef == clef {
				top = max(top, p.Distance)
				bottom = min(bottom, p.Distance)
			}
		}
		g := newGrid(top-bottom+1, width)
		row := func(d int) int { return top - d }

		for _, d := range notation.StaffLineSteps {
			for col := accStart; col < width; col++ {
				g.set(row(d), col, sym.StaffLine, cellStaff)
			}
		}
		label := 'T'
		if clef == notation.Bass {
			label = 'B'
		}
		g.set(row(1), 0, label, cellLabel)

		for _, p := range f.Positions {
			if p.Clef != clef {
				continue
			}
			col := noteCol
			if p.Offset {
				col++
			}
			for n := 0; n < p.Ledgers; n++ {
				d := -5 - 2*n
				if p.LedgersAbove() {
					d = 7 + 2*n
				}
				g.set(row(d), noteCol-1, sym.LedgerLine, cellLedger)
				g.set(row(d), noteCol, sym.LedgerLine, cellLedger)
				g.set(row(d), noteCol+1, sym.LedgerLine, cellLedger)
			}
			// a shifted head on a ledger line gets the line under it too
			if p.Offset && p.OnLine && p.Ledgers > 0 {
				g.set(row(p.Distance), col+1, sym.LedgerLine, cellLedger)
			}
			g.set(row(p.Distance), col, sym.NoteHead, cellNote)
		}

		for _, a := range f.Accidentals {
			pos := f.Positions[a.Index]
			if pos.Clef != clef {
				continue
			}
			r := sym.Sharp
			if a.Glyph == notation.Flat {
				r = sym.Flat
			}
			col := noteCol - 2 - a.Depth*2
			g.set(row(pos.Distance), col, r, cellAccidental)
		}

		sections = append(sections, c.draw(g))
	}
	return strings.Join(sections, "\n\n")
}

func (c *Canvas) draw(g *grid) string {
	styles := map[cellKind]lipgloss.Style{
		cellBlank:      lipgloss.NewStyle(),
		cellStaff:      lipgloss.NewStyle().Foreground(c.Theme.Staff()),
		cellLedger:     lipgloss.NewStyle().Foreground(c.Theme.FG()),
		cellNote:       lipgloss.NewStyle().Foreground(c.Theme.Active()).Bold(true),
		cellAccidental: lipgloss.NewStyle().Foreground(c.Theme.Accent()),
		cellLabel:      lipgloss.NewStyle().Foreground(c.Theme.Muted()),
	}

	lines := make([]string, len(g.rows))
	for i, row := range g.rows {
		var b strings.Builder
		// batch runs of the same kind into one styled span
		start := 0
		for j := 1; j <= len(row); j++ {
			if j == len(row) || row[j].kind != row[start].kind {
				var span strings.Builder
				for _, cl := range row[start:j] {
					span.WriteRune(cl.r)
				}
				b.WriteString(styles[row[start].kind].Render(span.String()))
				start = j
			}
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

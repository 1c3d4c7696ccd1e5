package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols are the characters the terminal staff is drawn with
type Symbols struct {
	StaffLine  rune // ─ one of the five lines
	LedgerLine rune // ─ short line through or beside a note
	NoteHead   rune // ● whole note
	Sharp      rune // ♯
	Flat       rune // ♭
	KeyDown    rune // ■ held key on the mini keyboard
	KeyUp      rune // · released key
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StaffLine:  '─',
			LedgerLine: '━',
			NoteHead:   '●',
			Sharp:      '♯',
			Flat:       '♭',
			KeyDown:    '■',
			KeyUp:      '·',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG     = 0.0
	RoleStaff  = 0.35
	RoleMuted  = 0.4
	RoleFG     = 0.5
	RoleActive = 0.67
	RoleAccent = 0.84
	RoleBright = 1.0
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return t.Color(RoleBG)
}

func (t *Theme) Staff() lipgloss.Color {
	return t.Color(RoleStaff)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

// Active colors sounding notes
func (t *Theme) Active() lipgloss.Color {
	return t.Color(RoleActive)
}

// Accent colors accidentals
func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

func (t *Theme) Bright() lipgloss.Color {
	return t.Color(RoleBright)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

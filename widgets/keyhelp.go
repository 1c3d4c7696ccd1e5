package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grand-staff/notation"
	"grand-staff/theme"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyStrip draws the 88 keys as one row, held keys highlighted.
func RenderKeyStrip(th *theme.Theme, sounding []notation.Pitch) string {
	held := make(map[notation.Pitch]bool, len(sounding))
	for _, p := range sounding {
		held[p] = true
	}

	down := lipgloss.NewStyle().Foreground(th.Active())
	black := lipgloss.NewStyle().Foreground(th.Muted())
	white := lipgloss.NewStyle().Foreground(th.FG())

	var out strings.Builder
	for p := notation.MinPitch; p <= notation.MaxPitch; p++ {
		switch {
		case held[p]:
			out.WriteString(down.Render(string(th.Symbols.KeyDown)))
		case notation.NeedsAccidental(p):
			out.WriteString(black.Render(string(th.Symbols.KeyUp)))
		default:
			out.WriteString(white.Render(string(th.Symbols.KeyUp)))
		}
	}
	return out.String()
}

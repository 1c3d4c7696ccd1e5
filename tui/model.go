package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grand-staff/midi"
	"grand-staff/notation"
	"grand-staff/render"
	"grand-staff/staff"
	"grand-staff/theme"
	"grand-staff/widgets"
)

// Home row for naturals, the row above for sharps, from C up.
var pianoRow = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j", "k", "o", "l", "p", ";", "'"}

type keyMap struct {
	Quit       key.Binding
	Spelling   key.Binding
	OctaveDown key.Binding
	OctaveUp   key.Binding
	Release    key.Binding
	Piano      key.Binding
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

var keys = keyMap{
	Quit:       bind("quit", "q", "ctrl+c"),
	Spelling:   bind("sharps / flats", "tab"),
	OctaveDown: bind("octave down", "z"),
	OctaveUp:   bind("octave up", "x"),
	Release:    bind("release everything", "esc"),
	Piano:      key.NewBinding(key.WithKeys(pianoRow...), key.WithHelp("a w s … '", "toggle C up to F (no key-up in terminals)")),
}

func helpSection(title string, bindings ...key.Binding) widgets.KeySection {
	sec := widgets.KeySection{Title: title}
	for _, b := range bindings {
		h := b.Help()
		sec.Keys = append(sec.Keys, widgets.KeyBinding{Key: h.Key, Desc: h.Desc})
	}
	return sec
}

var keyHelp = []widgets.KeySection{
	helpSection("Play", keys.Piano, keys.OctaveDown, keys.OctaveUp, keys.Release),
	helpSection("View", keys.Spelling, keys.Quit),
}

type Model struct {
	Display   *staff.Display
	DeviceMgr *midi.DeviceManager
	Renderer  *render.Renderer
	Theme     *theme.Theme

	canvas     *widgets.Canvas
	updates    <-chan struct{}
	octave     int
	latched    map[notation.Pitch]bool
	controller midi.Controller // current controller (may be nil)
	quitting   bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// NewModel wires the TUI to a running display. deviceMgr may be nil when no
// MIDI input is wanted.
func NewModel(display *staff.Display, deviceMgr *midi.DeviceManager, renderer *render.Renderer, th *theme.Theme, octave int) Model {
	return Model{
		Display:   display,
		DeviceMgr: deviceMgr,
		Renderer:  renderer,
		Theme:     th,
		canvas:    widgets.NewCanvas(th),
		updates:   display.Subscribe(),
		octave:    octave,
		latched:   make(map[notation.Pitch]bool),
	}
}

func ListenForUpdates(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.updates)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Spelling):
			m.Display.SetSpellingMode(m.Display.SpellingMode().Toggle())

		case key.Matches(msg, keys.OctaveDown):
			if m.octave > 0 {
				m.octave--
			}

		case key.Matches(msg, keys.OctaveUp):
			if m.octave < 7 {
				m.octave++
			}

		case key.Matches(msg, keys.Release):
			for p := range m.latched {
				m.Display.RemovePitch(p)
			}
			m.latched = make(map[notation.Pitch]bool)

		case key.Matches(msg, keys.Piano):
			m.toggle(m.pianoPitch(msg.String()))
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.updates)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.controller = event.Controller
			go midi.Forward(event.Controller, m.Display)
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
			}
			// Release everything so nothing hangs on screen.
			m.Display.Clear()
			m.latched = make(map[notation.Pitch]bool)
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) pianoPitch(k string) notation.Pitch {
	for i, pk := range pianoRow {
		if pk == k {
			return notation.Pitch((m.octave+1)*12 + i)
		}
	}
	return 0
}

// toggle latches a pitch on or off. Pitches off the keyboard are ignored.
func (m *Model) toggle(p notation.Pitch) {
	if !p.Valid() {
		return
	}
	if m.latched[p] {
		delete(m.latched, p)
		m.Display.RemovePitch(p)
		return
	}
	m.latched[p] = true
	m.Display.AddPitch(p)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	pitches, mode := m.Display.Snapshot()
	frame := m.Renderer.Frame(pitches, mode)

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Bright()).Background(m.Theme.BG()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	noteStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())

	device := "no input"
	if m.controller != nil {
		device = m.controller.ID()
	}
	header := headerStyle.Render(fmt.Sprintf("grand-staff  %s  octave:%d  %s", mode, m.octave, device))

	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = notation.Name(p, mode)
	}
	sounding := dimStyle.Render("-")
	if len(names) > 0 {
		sounding = noteStyle.Render(strings.Join(names, " "))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.canvas.Render(frame))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderKeyStrip(m.Theme, pitches))
	out.WriteString("\n")
	out.WriteString(sounding)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))

	return out.String()
}

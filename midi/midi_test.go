package midi

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/smf"

	"grand-staff/debug"
	"grand-staff/notation"
)

func TestDecode(t *testing.T) {
	evs := decode(gomidi.NoteOn(0, 61, 100))
	require.Len(t, evs, 1)
	assert.Equal(t, NoteEvent{Note: 61, Velocity: 100, On: true}, evs[0])

	evs = decode(gomidi.NoteOn(2, 61, 0))
	require.Len(t, evs, 1)
	assert.Equal(t, NoteEvent{Note: 61, Channel: 2}, evs[0])

	evs = decode(gomidi.NoteOff(0, 64))
	require.Len(t, evs, 1)
	assert.False(t, evs[0].On)

	evs = decode(gomidi.ControlChange(0, 123, 0))
	require.Len(t, evs, 1)
	assert.True(t, evs[0].AllOff)

	assert.Empty(t, decode(gomidi.ControlChange(0, 7, 100)))
}

func TestKeyboardChannelFilter(t *testing.T) {
	kb, err := NewKeyboardController("test", nil, 2)
	require.NoError(t, err)

	kb.handle(gomidi.NoteOn(0, 60, 90), 0) // channel 1, filtered
	kb.handle(gomidi.NoteOn(1, 62, 90), 0) // channel 2
	require.NoError(t, kb.Close())

	var got []NoteEvent
	for ev := range kb.NoteEvents() {
		got = append(got, ev)
	}
	require.Len(t, got, 1)
	assert.Equal(t, uint8(62), got[0].Note)

	// sends after close are dropped, not a panic
	kb.handle(gomidi.NoteOn(1, 64, 90), 0)
}

func TestSelectionPick(t *testing.T) {
	names := []string{"Midi Through Port-0", "USB Keyboard", "Launchkey MK3 MIDI 1"}

	sel := Selection{
		Preferred: []string{"launchkey"},
		Excluded:  []string{"Midi Through"},
	}
	assert.Equal(t, 2, sel.Pick(names))

	sel.Preferred = nil
	assert.Equal(t, 1, sel.Pick(names))

	sel.Excluded = []string{"through", "usb", "launchkey"}
	assert.Equal(t, -1, sel.Pick(names))
	assert.Equal(t, -1, Selection{}.Pick(nil))
}

type fakeIn struct {
	drivers.In
	name string
}

func (f fakeIn) String() string { return f.name }

type fakeController struct {
	id     string
	ch     chan NoteEvent
	closed bool
}

func (f *fakeController) ID() string                   { return f.id }
func (f *fakeController) Type() ControllerType         { return ControllerKeyboard }
func (f *fakeController) NoteEvents() <-chan NoteEvent { return f.ch }
func (f *fakeController) Close() error                 { f.closed = true; return nil }

func TestDeviceManagerHotPlug(t *testing.T) {
	ports := []drivers.In{fakeIn{name: "Midi Through"}, fakeIn{name: "Piano"}}
	var opened []*fakeController

	dm := NewDeviceManager(Selection{Excluded: []string{"through"}})
	dm.listPorts = func() ([]drivers.In, error) { return ports, nil }
	dm.open = func(id string, in drivers.In, channel int) (Controller, error) {
		c := &fakeController{id: id, ch: make(chan NoteEvent)}
		opened = append(opened, c)
		return c, nil
	}

	dm.scan()
	ev := <-dm.Events()
	assert.Equal(t, DeviceConnected, ev.Type)
	assert.Equal(t, "Piano", ev.ID)
	assert.Equal(t, "Piano", dm.Current().ID())

	// unchanged ports: no new events
	dm.scan()
	assert.Len(t, dm.Events(), 0)

	// unplug
	ports = ports[:1]
	dm.scan()
	ev = <-dm.Events()
	assert.Equal(t, DeviceDisconnected, ev.Type)
	assert.Equal(t, "Piano", ev.ID)
	assert.Nil(t, dm.Current())
	assert.True(t, opened[0].closed)

	// listing failure keeps state
	dm.listPorts = func() ([]drivers.In, error) { return nil, errors.New("hung") }
	dm.scan()
	assert.Len(t, dm.Events(), 0)
}

func TestScanPublishesOutsideLock(t *testing.T) {
	dm := NewDeviceManager(Selection{})
	dm.events = make(chan DeviceEvent) // nobody reading yet
	dm.listPorts = func() ([]drivers.In, error) { return []drivers.In{fakeIn{name: "Piano"}}, nil }
	dm.open = func(id string, in drivers.In, channel int) (Controller, error) {
		return &fakeController{id: id, ch: make(chan NoteEvent)}, nil
	}

	done := make(chan struct{})
	go func() {
		dm.scan()
		close(done)
	}()

	// the stalled send must not hold the lock
	require.Eventually(t, func() bool { return dm.Current() != nil }, time.Second, 5*time.Millisecond)

	ev := <-dm.Events()
	assert.Equal(t, DeviceConnected, ev.Type)
	<-done
}

func TestKeyboardLogsIgnoredMessages(t *testing.T) {
	var buf bytes.Buffer
	debug.EnableWriter(&buf)
	t.Cleanup(debug.Disable)

	kb, err := NewKeyboardController("kb", nil, 0)
	require.NoError(t, err)
	for i := 0; i < ignoredLogEvery; i++ {
		kb.handle(gomidi.Pitchbend(0, 100), 0)
	}
	assert.Len(t, kb.NoteEvents(), 0)
	assert.Contains(t, buf.String(), "kb: ignored")
}

type recordingSink struct {
	calls []string
}

func (r *recordingSink) AddPitch(p notation.Pitch)    { r.calls = append(r.calls, fmt.Sprintf("on %d", p)) }
func (r *recordingSink) RemovePitch(p notation.Pitch) { r.calls = append(r.calls, fmt.Sprintf("off %d", p)) }
func (r *recordingSink) Clear()                       { r.calls = append(r.calls, "clear") }

func TestForward(t *testing.T) {
	ctrl := &fakeController{id: "kb", ch: make(chan NoteEvent, 4)}
	ctrl.ch <- NoteEvent{Note: 64, Velocity: 90, On: true}
	ctrl.ch <- NoteEvent{Note: 64}
	ctrl.ch <- NoteEvent{AllOff: true}
	close(ctrl.ch)

	sink := &recordingSink{}
	Forward(ctrl, sink)
	assert.Equal(t, []string{"on 64", "off 64", "clear"}, sink.calls)
}

func TestWriteChord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChord(&buf, []notation.Pitch{48, 64, 67}, 0, 2))

	sm, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, sm.Tracks, 1)

	var on, off []uint8
	var held uint32
	for _, ev := range sm.Tracks[0] {
		var ch, key, vel uint8
		msg := gomidi.Message(ev.Message)
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			on = append(on, key)
		case msg.GetNoteEnd(&ch, &key):
			off = append(off, key)
			held += ev.Delta
		}
	}
	assert.Equal(t, []uint8{48, 64, 67}, on)
	assert.Equal(t, []uint8{48, 64, 67}, off)
	assert.Equal(t, uint32(2*ticksPerBeat), held)
}

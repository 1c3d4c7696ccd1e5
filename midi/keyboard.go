package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"grand-staff/debug"
)

// log one in this many messages that carry no note
const ignoredLogEvery = 50

// KeyboardController handles a standard MIDI keyboard
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	// channel filter, 0 = omni
	channel uint8

	mu       sync.Mutex
	closed   bool
	noteChan chan NoteEvent
}

// NewKeyboardController creates a keyboard controller (input only).
// channel is 1-16, or 0 to accept every channel.
func NewKeyboardController(id string, inPort drivers.In, channel int) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		channel:  uint8(channel),
		noteChan: make(chan NoteEvent, 64),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, kb.handle)
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", id, err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) handle(msg gomidi.Message, timestampms int32) {
	evs := decode(msg)
	if evs == nil {
		// clock, pitch bend and pedals arrive constantly
		debug.LogEvery(ignoredLogEvery, "midi", "%s: ignored %s", kb.id, msg)
		return
	}
	for _, ev := range evs {
		if kb.channel != 0 && ev.Channel+1 != kb.channel {
			continue
		}
		kb.send(ev)
	}
}

// decode turns a raw message into note events. Note-on with velocity 0 is a
// note-off; "all notes off" releases every key.
func decode(msg gomidi.Message) []NoteEvent {
	var channel, key, velocity, cc, value uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return []NoteEvent{{Note: key, Velocity: velocity, Channel: channel, On: true}}
	case msg.GetNoteEnd(&channel, &key):
		return []NoteEvent{{Note: key, Channel: channel}}
	case msg.GetControlChange(&channel, &cc, &value) && cc == ccAllNotesOff:
		return []NoteEvent{{Channel: channel, AllOff: true}}
	}
	return nil
}

func (kb *KeyboardController) send(ev NoteEvent) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if kb.closed {
		return
	}
	select {
	case kb.noteChan <- ev:
	default:
		debug.Log("midi", "%s: note queue full, dropped %d on=%v", kb.id, ev.Note, ev.On)
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if !kb.closed {
		kb.closed = true
		close(kb.noteChan)
	}
	return nil
}

package staff

import (
	"context"
	"sync"
	"sync/atomic"

	"grand-staff/debug"
	"grand-staff/notation"
)

// EventType says whether a pitch started or stopped sounding.
type EventType uint8

const (
	NoteOn EventType = iota
	NoteOff
	AllOff
)

// Event is one queued change to the sounding set.
type Event struct {
	Type  EventType
	Pitch notation.Pitch
}

// queue depth for note events waiting on the consumer
const eventBuffer = 128

// Display owns the sounding set. Note events from any goroutine are queued
// and applied by Run, the only mutator. Once the queue is drained every
// subscriber gets a redraw signal.
type Display struct {
	set      *PitchSet
	events   chan Event
	mode     atomic.Int32
	done     chan struct{} // closed when Run returns
	stopOnce sync.Once

	// Notify renderers of changes
	subsMu sync.Mutex
	subs   []chan struct{}
}

// NewDisplay creates a display with an empty set.
func NewDisplay(mode notation.SpellingMode) *Display {
	d := &Display{
		set:    NewPitchSet(),
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	d.mode.Store(int32(mode))
	return d
}

// AddPitch queues a note-on. Out-of-range pitches are dropped right away.
func (d *Display) AddPitch(p notation.Pitch) {
	if !p.Valid() {
		debug.Log("staff", "drop note-on %d: out of range", p)
		return
	}
	d.enqueue(Event{Type: NoteOn, Pitch: p})
}

// RemovePitch queues a note-off. Out-of-range pitches are dropped right away.
func (d *Display) RemovePitch(p notation.Pitch) {
	if !p.Valid() {
		debug.Log("staff", "drop note-off %d: out of range", p)
		return
	}
	d.enqueue(Event{Type: NoteOff, Pitch: p})
}

// Clear queues releasing every pitch (e.g. when the input device goes away).
func (d *Display) Clear() {
	d.enqueue(Event{Type: AllOff})
}

// enqueue waits for queue space unless Run has stopped.
func (d *Display) enqueue(ev Event) {
	select {
	case d.events <- ev:
	case <-d.done:
		debug.Log("staff", "display stopped, dropped event %d for %d", ev.Type, ev.Pitch)
	}
}

// SetSpellingMode changes how black keys are spelled from the next redraw on.
func (d *Display) SetSpellingMode(mode notation.SpellingMode) {
	if notation.SpellingMode(d.mode.Swap(int32(mode))) != mode {
		d.notify()
	}
}

// SpellingMode returns the current mode.
func (d *Display) SpellingMode() notation.SpellingMode {
	return notation.SpellingMode(d.mode.Load())
}

// Snapshot returns the sounding pitches and the mode to lay them out with.
func (d *Display) Snapshot() ([]notation.Pitch, notation.SpellingMode) {
	return d.set.Snapshot(), d.SpellingMode()
}

// Bottom returns the lowest pitch sounding on a staff.
func (d *Display) Bottom(clef notation.Clef) (notation.Pitch, bool) {
	return d.set.Bottom(clef)
}

// Subscribe returns a channel that signals a redraw is due. Signals are
// coalesced: a slow reader sees one pending signal, never a backlog.
func (d *Display) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	d.subsMu.Lock()
	d.subs = append(d.subs, ch)
	d.subsMu.Unlock()
	return ch
}

// Run applies queued events until ctx is done (blocking - run in goroutine)
func (d *Display) Run(ctx context.Context) {
	defer d.stopOnce.Do(func() { close(d.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.events:
			changed := d.apply(ev)
			// Drain whatever else is pending so one redraw covers a chord.
		drain:
			for {
				select {
				case ev := <-d.events:
					if d.apply(ev) {
						changed = true
					}
				default:
					break drain
				}
			}
			if changed {
				d.notify()
			}
		}
	}
}

func (d *Display) apply(ev Event) bool {
	switch ev.Type {
	case NoteOn:
		return d.set.Add(ev.Pitch)
	case NoteOff:
		return d.set.Remove(ev.Pitch)
	case AllOff:
		if d.set.Len() == 0 {
			return false
		}
		d.set.Clear()
		return true
	}
	return false
}

func (d *Display) notify() {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

package midi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"grand-staff/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// Selection decides which input port to listen to
type Selection struct {
	Preferred []string // picked first, in order
	Excluded  []string // never auto-connected
	Channel   int      // 0 = omni
}

// Pick returns the index of the port to connect, or -1. Names matching a
// preferred pattern win in pattern order; otherwise the first port that is
// not excluded.
func (s Selection) Pick(names []string) int {
	for _, pat := range s.Preferred {
		for i, name := range names {
			if contains(name, pat) && !s.excluded(name) {
				return i
			}
		}
	}
	for i, name := range names {
		if !s.excluded(name) {
			return i
		}
	}
	return -1
}

func (s Selection) excluded(name string) bool {
	for _, pat := range s.Excluded {
		if contains(name, pat) {
			return true
		}
	}
	return false
}

func contains(name, pat string) bool {
	return pat != "" && strings.Contains(strings.ToLower(name), strings.ToLower(pat))
}

// DeviceManager handles hot-plug detection of MIDI keyboards. It keeps at most
// one input connected: the best port according to its Selection.
type DeviceManager struct {
	sel      Selection
	current  Controller
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration

	// port listing, swappable for tests
	listPorts func() ([]drivers.In, error)
	open      func(id string, in drivers.In, channel int) (Controller, error)
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(sel Selection) *DeviceManager {
	return &DeviceManager{
		sel:       sel,
		events:    make(chan DeviceEvent, 16),
		pollRate:  time.Second,
		listPorts: ListInPorts,
		open: func(id string, in drivers.In, channel int) (Controller, error) {
			return NewKeyboardController(id, in, channel)
		},
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Current returns the connected controller (or nil)
func (dm *DeviceManager) Current() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.current
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// ListInPorts returns the input ports, giving up after 3 seconds (CoreMIDI
// can hang).
func ListInPorts() ([]drivers.In, error) {
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	select {
	case ins := <-ch:
		return ins, nil
	case <-time.After(3 * time.Second):
		return nil, fmt.Errorf("listing MIDI inputs timed out")
	}
}

func (dm *DeviceManager) scan() {
	inPorts, err := dm.listPorts()
	if err != nil {
		// MIDI service is hung - skip this scan
		debug.Log("midi", "scan: %v", err)
		return
	}

	names := make([]string, len(inPorts))
	for i, p := range inPorts {
		names[i] = p.String()
	}

	for _, ev := range dm.reconcile(names, inPorts) {
		dm.events <- ev
	}
}

// reconcile updates the current controller under the lock and returns the
// events to publish once it is released.
func (dm *DeviceManager) reconcile(names []string, inPorts []drivers.In) []DeviceEvent {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var out []DeviceEvent
	if dm.current != nil && !containsName(names, dm.current.ID()) {
		id := dm.current.ID()
		dm.current.Close()
		dm.current = nil
		debug.Log("midi", "disconnected %s", id)
		out = append(out, DeviceEvent{Type: DeviceDisconnected, ID: id})
	}

	if dm.current != nil {
		return out
	}

	idx := dm.sel.Pick(names)
	if idx < 0 {
		return out
	}

	ctrl, err := dm.open(names[idx], inPorts[idx], dm.sel.Channel)
	if err != nil {
		debug.Log("midi", "open %s: %v", names[idx], err)
		return out
	}
	dm.current = ctrl
	debug.Log("midi", "connected %s", names[idx])
	return append(out, DeviceEvent{Type: DeviceConnected, Controller: ctrl, ID: names[idx]})
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.current != nil {
		dm.current.Close()
		dm.current = nil
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

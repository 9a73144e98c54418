// Package keymap defines the boundary to the external layer/hold-tap/chord
// resolution engine. This repository does not implement that engine (it
// is an external collaborator supplying layers and producing the 8-byte
// HID report); it defines the interface the rest of the firmware is
// coded against, plus a small deterministic test double.
package keymap

import (
	"github.com/usbarmory/splitec/event"
	"github.com/usbarmory/splitec/hid"
)

// Engine absorbs press/release events, advances its internal timers once
// per tick, and reports the keycodes currently held down.
type Engine interface {
	Event(e event.Event)
	Tick()
	Report() hid.Report
}

// Identity is a deterministic single-layer engine with no hold-tap or
// chord resolution: it maps each (row, col) directly to a keycode via a
// fixed table and reports whichever keys are currently held. It exists so
// this repository's own tests can exercise the event queue and HID tick
// loop without the real keymap engine.
type Identity struct {
	keycodes [5][12]uint8
	held     map[event.Event]uint8
}

// NewIdentity constructs an Identity engine from a row/col -> keycode
// table.
func NewIdentity(keycodes [5][12]uint8) *Identity {
	return &Identity{
		keycodes: keycodes,
		held:     make(map[event.Event]uint8),
	}
}

// Event absorbs a press or release, updating the held-key set.
func (i *Identity) Event(e event.Event) {
	switch e.Kind {
	case event.KeyPress:
		i.held[event.Press(e.Row, e.Col)] = i.keycodes[e.Row][e.Col]
	case event.KeyRelease:
		delete(i.held, event.Press(e.Row, e.Col))
	}
}

// Tick is a no-op for Identity: it has no timers to advance.
func (i *Identity) Tick() {}

// Report collects up to six currently-held keycodes into a fresh HID
// report. No modifier or LED handling is implemented.
func (i *Identity) Report() hid.Report {
	var r hid.Report

	n := 0
	for _, kc := range i.held {
		if n >= len(r.Keys) {
			break
		}
		r.Keys[n] = kc
		n++
	}

	return r
}

// Package hid implements the fixed-period HID report tick loop: driving
// the keymap engine's timers and emitting a boot-keyboard report over USB
// whenever it changes.
package hid

import (
	"sync"
	"time"
)

// TickPeriod is the fixed interval between keymap engine ticks.
const TickPeriod = 1 * time.Millisecond

// Report is the 8-byte USB HID boot-keyboard input report:
// [modifier, reserved=0, key0..key5]. LED state is carried by the
// (unused, per the external interface contract) interrupt-OUT endpoint,
// not by this report.
type Report struct {
	Modifier uint8
	Keys     [6]uint8
}

// Bytes renders the report in wire order.
func (r Report) Bytes() [8]byte {
	return [8]byte{r.Modifier, 0, r.Keys[0], r.Keys[1], r.Keys[2], r.Keys[3], r.Keys[4], r.Keys[5]}
}

// Engine is the capability the tick loop requires of the keymap engine:
// advance its timers, then report the keycodes currently held down.
type Engine interface {
	Tick()
	Report() Report
}

// Writer transmits one HID report over the USB interrupt-IN endpoint.
type Writer interface {
	Write(report [8]byte) error
}

// TickLoop drives Engine at TickPeriod, guarding it with a mutex shared
// with the event consumer so that "engine absorbs event" and "tick loop
// reads engine state" never interleave mid-update.
type TickLoop struct {
	mu     *sync.Mutex
	engine Engine
	writer Writer

	last Report
}

// NewTickLoop constructs a TickLoop. mu must be the same mutex the event
// consumer locks before calling Engine.Event.
func NewTickLoop(mu *sync.Mutex, engine Engine, writer Writer) *TickLoop {
	return &TickLoop{mu: mu, engine: engine, writer: writer}
}

// Run ticks the engine and writes a report on change, forever, until done
// is closed. It sleeps TickPeriod between iterations.
func (t *TickLoop) Run(done <-chan struct{}) error {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if err := t.tick(); err != nil {
				return err
			}
		}
	}
}

func (t *TickLoop) tick() error {
	t.mu.Lock()
	t.engine.Tick()
	report := t.engine.Report()
	t.mu.Unlock()

	if report == t.last {
		return nil
	}

	if err := t.writer.Write(report.Bytes()); err != nil {
		return err
	}

	t.last = report

	return nil
}

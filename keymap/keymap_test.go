package keymap

import (
	"testing"

	"github.com/usbarmory/splitec/event"
)

func testKeycodes() [5][12]uint8 {
	var kc [5][12]uint8
	kc[0][0] = 0x04
	kc[1][1] = 0x05
	return kc
}

func TestIdentityReportsHeldKeys(t *testing.T) {
	e := NewIdentity(testKeycodes())

	e.Event(event.Press(0, 0))
	e.Event(event.Press(1, 1))

	r := e.Report()

	found := map[uint8]bool{}
	for _, kc := range r.Keys {
		if kc != 0 {
			found[kc] = true
		}
	}

	if !found[0x04] || !found[0x05] {
		t.Fatalf("Report() = %+v, want both 0x04 and 0x05 held", r)
	}
}

func TestIdentityReleaseRemovesKey(t *testing.T) {
	e := NewIdentity(testKeycodes())

	e.Event(event.Press(0, 0))
	e.Event(event.Release(0, 0))

	r := e.Report()

	for _, kc := range r.Keys {
		if kc == 0x04 {
			t.Fatalf("key 0x04 should have been released, got %+v", r)
		}
	}
}

func TestIdentityTickIsNoop(t *testing.T) {
	e := NewIdentity(testKeycodes())
	e.Event(event.Press(0, 0))

	before := e.Report()
	e.Tick()
	after := e.Report()

	if before != after {
		t.Fatalf("Tick should not change the report: before %+v, after %+v", before, after)
	}
}

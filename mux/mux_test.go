package mux

import "testing"

type fakePin struct {
	high  bool
	level bool
	err   error
}

func (p *fakePin) High() error {
	if p.err != nil {
		return p.err
	}
	p.level = true
	p.high = true
	return nil
}

func (p *fakePin) Low() error {
	if p.err != nil {
		return p.err
	}
	p.level = false
	return nil
}

func newMux() (*Mux8, *fakePin, [3]*fakePin) {
	enable := &fakePin{}
	var selects [3]*fakePin
	var ifaces [3]OutputPin

	for i := range selects {
		selects[i] = &fakePin{}
		ifaces[i] = selects[i]
	}

	m, err := New(enable, ifaces, []uint8{0, 1, 2, 3, 4, 5, 6})
	if err != nil {
		panic(err)
	}

	return m, enable, selects
}

func TestNewDisablesOnConstruction(t *testing.T) {
	_, enable, _ := newMux()

	if !enable.high {
		t.Fatal("enable pin should have been driven high (disabled) on construction")
	}
}

func TestSelectEncodesChannelLSBFirst(t *testing.T) {
	m, enable, selects := newMux()

	// channel for idx 5 is 5 = 0b101
	if err := m.Select(5); err != nil {
		t.Fatalf("Select(5): %v", err)
	}

	if selects[0].level != true || selects[1].level != false || selects[2].level != true {
		t.Fatalf("select lines = %v,%v,%v, want true,false,true",
			selects[0].level, selects[1].level, selects[2].level)
	}

	if enable.level != false {
		t.Fatal("mux should be enabled (line low) after Select")
	}
}

func TestSelectOutOfRangeIndex(t *testing.T) {
	m, _, _ := newMux()

	if err := m.Select(7); err == nil {
		t.Fatal("Select(7) should fail: only 7 channels configured")
	}
}

func TestSelectDisablesBeforeReselecting(t *testing.T) {
	m, enable, _ := newMux()

	enable.high = false // simulate an externally-enabled mux
	if err := m.Select(0); err != nil {
		t.Fatalf("Select(0): %v", err)
	}

	if !enable.high {
		t.Fatal("Select must disable (drive high) before reselecting")
	}
}

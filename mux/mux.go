// Package mux implements a driver for a 74HC4051-style 3-bit active-low 8:1
// analog multiplexer.
package mux

import "github.com/usbarmory/splitec/kbderr"

// OutputPin is the capability this package requires of a GPIO output.
type OutputPin interface {
	High() error
	Low() error
}

// Mux8 drives an 8:1 multiplexer through an active-low enable pin and three
// select pins, mapping RX column indices to mux channels through a fixed
// lookup table.
type Mux8 struct {
	enable   OutputPin
	selects  [3]OutputPin
	channels []uint8
}

// New constructs a Mux8 and leaves it disabled.
func New(enable OutputPin, selects [3]OutputPin, channels []uint8) (*Mux8, error) {
	m := &Mux8{
		enable:   enable,
		selects:  selects,
		channels: channels,
	}

	if err := m.Disable(); err != nil {
		return nil, err
	}

	return m, nil
}

// Enable drives the enable line low, activating the mux.
func (m *Mux8) Enable() error {
	if err := m.enable.Low(); err != nil {
		return kbderr.ErrGpio
	}
	return nil
}

// Disable drives the enable line high, deactivating the mux.
func (m *Mux8) Disable() error {
	if err := m.enable.High(); err != nil {
		return kbderr.ErrGpio
	}
	return nil
}

// Select routes RX index idx to the ADC input, disabling the mux first to
// avoid glitch-through during the select transition.
func (m *Mux8) Select(idx int) error {
	if err := m.Disable(); err != nil {
		return err
	}

	if idx < 0 || idx >= len(m.channels) {
		return kbderr.ColOutOfRange(idx)
	}

	ch := m.channels[idx]

	if ch > 7 {
		return kbderr.MuxOutOfRange(idx)
	}

	var mask uint8 = 1

	for _, pin := range m.selects {
		var err error

		if ch&mask != 0 {
			err = pin.High()
		} else {
			err = pin.Low()
		}

		if err != nil {
			return kbderr.ErrGpio
		}

		mask <<= 1
	}

	return m.Enable()
}

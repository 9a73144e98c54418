// Package analog implements the TX charge/discharge and RX sample-select
// halves of the EC sense network, parameterised over small hardware
// capability interfaces so the same logic runs on any backend that
// satisfies them.
package analog

import "github.com/usbarmory/splitec/kbderr"

// OutputPin is a push-pull or open-drain GPIO output.
type OutputPin interface {
	High() error
	Low() error
}

// ADCReader samples the RX line once per call, blocking until the
// conversion completes.
type ADCReader interface {
	Read() (int32, error)
}

// ChannelSelector selects one of the RX mux channels.
type ChannelSelector interface {
	Select(idx int) error
}

// Delayer blocks for the discharge settling time.
type Delayer interface {
	Delay()
}

// TxCharger drives TX_SIZE channel pins through a shared drain pin.
type TxCharger struct {
	drain    OutputPin
	channels []OutputPin
	delay    Delayer
}

// NewTxCharger constructs a TxCharger with the drain pin and all channel
// pins driven low.
func NewTxCharger(drain OutputPin, channels []OutputPin, delay Delayer) (*TxCharger, error) {
	c := &TxCharger{drain: drain, channels: channels, delay: delay}

	if err := drain.Low(); err != nil {
		return nil, kbderr.ErrGpio
	}

	for _, ch := range channels {
		if err := ch.Low(); err != nil {
			return nil, kbderr.ErrGpio
		}
	}

	return c, nil
}

// ChargeCapacitor drives the drain pin high, then the requested channel
// high. There is no settling delay here: charge time is bounded by the
// downstream RX read latency.
func (c *TxCharger) ChargeCapacitor(idx int) error {
	if idx < 0 || idx >= len(c.channels) {
		return kbderr.RowOutOfRange(idx)
	}

	if err := c.drain.High(); err != nil {
		return kbderr.ErrGpio
	}

	if err := c.channels[idx].High(); err != nil {
		return kbderr.ErrGpio
	}

	return nil
}

// DischargeCapacitor drives the requested channel low, then the drain pin
// low, then waits out the bounded discharge delay.
func (c *TxCharger) DischargeCapacitor(idx int) error {
	if idx < 0 || idx >= len(c.channels) {
		return kbderr.RowOutOfRange(idx)
	}

	if err := c.channels[idx].Low(); err != nil {
		return kbderr.ErrGpio
	}

	if err := c.drain.Low(); err != nil {
		return kbderr.ErrGpio
	}

	c.delay.Delay()

	return nil
}

// DischargeAll discharges every TX channel in turn, used for initial
// settling before the first sweep.
func (c *TxCharger) DischargeAll() error {
	for i := range c.channels {
		if err := c.DischargeCapacitor(i); err != nil {
			return err
		}
	}

	return nil
}

// RxSampler wraps a mux channel selector and an ADC into a single
// select-then-read operation.
type RxSampler struct {
	mux ChannelSelector
	adc ADCReader
}

// NewRxSampler constructs an RxSampler.
func NewRxSampler(mux ChannelSelector, adc ADCReader) *RxSampler {
	return &RxSampler{mux: mux, adc: adc}
}

// Select routes RX index idx through the mux.
func (r *RxSampler) Select(idx int) error {
	return r.mux.Select(idx)
}

// Read samples the currently selected RX channel.
func (r *RxSampler) Read() (int32, error) {
	return r.adc.Read()
}

// Package scanner orchestrates the TX charger, RX sampler and debouncer
// into the matrix scan loop, emitting logical press/release events.
package scanner

import (
	"github.com/usbarmory/splitec/debounce"
	"github.com/usbarmory/splitec/event"
	"github.com/usbarmory/splitec/matrix"
	"github.com/usbarmory/splitec/transform"
)

// Tx is the capability set the scanner requires of the TX charger.
type Tx interface {
	ChargeCapacitor(idx int) error
	DischargeCapacitor(idx int) error
	DischargeAll() error
}

// Rx is the capability set the scanner requires of the RX sampler.
type Rx interface {
	Select(idx int) error
	Read() (int32, error)
}

// CriticalSection runs fn with interrupts masked, on architectures that
// support it. The charge-then-sample pair is the only part of the scan
// step that must run inside it.
type CriticalSection func(fn func())

// Scanner drives the charge -> select -> sample -> debounce -> transform
// pipeline over a TX×RX grid.
type Scanner struct {
	tx        Tx
	rx        Rx
	transform transform.Func
	debouncer *debounce.Debouncer
	thresholds [matrix.TxSize][matrix.RxSize]int32
	values     [matrix.TxSize][matrix.RxSize]int32
	critical   CriticalSection
	iter       *matrix.Iterator
}

// New constructs a Scanner. thresholds must be a TX_SIZE×RX_SIZE grid; a
// cell is "pressed" when its sample is strictly greater than its
// threshold.
func New(tx Tx, rx Rx, tr transform.Func, debouncer *debounce.Debouncer, thresholds [matrix.TxSize][matrix.RxSize]int32, critical CriticalSection) *Scanner {
	if critical == nil {
		critical = func(fn func()) { fn() }
	}

	return &Scanner{
		tx:         tx,
		rx:         rx,
		transform:  tr,
		debouncer:  debouncer,
		thresholds: thresholds,
		critical:   critical,
		iter:       matrix.NewIterator(),
	}
}

// DischargeAll walks every RX channel and discharges every TX plate, used
// for initial settling before the first sweep.
func (s *Scanner) DischargeAll() error {
	for i := 0; i < matrix.RxSize; i++ {
		if err := s.rx.Select(i); err != nil {
			return err
		}

		if err := s.tx.DischargeAll(); err != nil {
			return err
		}
	}

	return nil
}

// RawValues returns the last sampled value per cell, for diagnostics only.
func (s *Scanner) RawValues() [matrix.TxSize][matrix.RxSize]int32 {
	return s.values
}

// step performs a single matrix scan step for electrical coordinate c,
// returning the debounced event if the cell's state flipped.
func (s *Scanner) step(c matrix.Coord) (event.Event, error) {
	if err := s.rx.Select(c.Rx); err != nil {
		return event.Event{}, err
	}

	var sample int32
	var chargeErr error

	s.critical(func() {
		if chargeErr = s.tx.ChargeCapacitor(c.Tx); chargeErr != nil {
			return
		}
		sample, chargeErr = s.rx.Read()
	})

	if chargeErr != nil {
		return event.Event{}, chargeErr
	}

	if err := s.tx.DischargeCapacitor(c.Tx); err != nil {
		return event.Event{}, err
	}

	s.values[c.Tx][c.Rx] = sample
	rawPressed := sample > s.thresholds[c.Tx][c.Rx]

	flipped, err := s.debouncer.Update(c.Tx, c.Rx, rawPressed)
	if err != nil {
		return event.Event{}, err
	}

	if !flipped {
		return event.Event{}, nil
	}

	row, col := s.transform(c)

	if rawPressed {
		return event.Press(row, col), nil
	}

	return event.Release(row, col), nil
}

// Scan performs matrix steps until a debounced transition is observed,
// returning that event already transformed to logical coordinates, or the
// None event when a full sweep completes with no transitions. Errors from
// any step are fatal to that cell for this sweep: the cell is skipped and
// scanning continues with the next coordinate.
func (s *Scanner) Scan() (event.Event, error) {
	for {
		c, ok := s.iter.Next()
		if !ok {
			return event.Event{}, nil
		}

		e, err := s.step(c)
		if err != nil {
			continue
		}

		if !e.IsNone() {
			return e, nil
		}
	}
}

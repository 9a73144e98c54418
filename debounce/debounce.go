// Package debounce implements a per-cell N-consecutive-agreement noise
// filter over the TX×RX sense grid.
package debounce

import (
	"errors"

	"github.com/usbarmory/splitec/kbderr"
)

// ErrZeroBounce is returned by New when constructed with nbBounce == 0,
// which would underflow the hit-count comparison.
var ErrZeroBounce = errors.New("debounce: nb_bounce must be >= 1")

// Debouncer tracks, per (tx, rx) cell, the last accepted pressed state and
// a run-length counter of consecutive disagreeing raw readings.
type Debouncer struct {
	rows, cols int
	nbBounce   uint8

	pressed [][]bool
	hits    [][]uint8
}

// New constructs a Debouncer for a rows×cols grid. nbBounce must be >= 1.
func New(rows, cols int, nbBounce uint8) (*Debouncer, error) {
	if nbBounce == 0 {
		return nil, ErrZeroBounce
	}

	d := &Debouncer{
		rows:     rows,
		cols:     cols,
		nbBounce: nbBounce,
		pressed:  make([][]bool, rows),
		hits:     make([][]uint8, rows),
	}

	for i := range d.pressed {
		d.pressed[i] = make([]bool, cols)
		d.hits[i] = make([]uint8, cols)
	}

	return d, nil
}

// Update folds in one raw reading for cell (row, col). It returns true
// exactly when the accepted state for that cell flips: this occurs once
// nbBounce consecutive readings disagree with the currently accepted
// state. Any reading that agrees with the accepted state resets the run
// counter, treating the prior disagreement as noise.
func (d *Debouncer) Update(row, col int, rawPressed bool) (bool, error) {
	if row < 0 || row >= d.rows {
		return false, kbderr.RowOutOfRange(row)
	}

	if col < 0 || col >= d.cols {
		return false, kbderr.ColOutOfRange(col)
	}

	if d.pressed[row][col] == rawPressed {
		d.hits[row][col] = 0
		return false, nil
	}

	if d.hits[row][col] == d.nbBounce-1 {
		d.hits[row][col] = 0
		d.pressed[row][col] = !d.pressed[row][col]
		return true, nil
	}

	d.hits[row][col]++

	return false, nil
}

// Pressed returns the currently accepted state for cell (row, col).
func (d *Debouncer) Pressed(row, col int) bool {
	return d.pressed[row][col]
}

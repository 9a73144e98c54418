// Package matrix defines the electrical coordinate space of the EC sense
// matrix and its deterministic traversal order.
package matrix

// TxSize and RxSize bound the electrical coordinate space: four TX (row)
// plates, seven RX (column) lines per half.
const (
	TxSize = 4
	RxSize = 7
)

// Coord is an electrical coordinate (tx, rx) within the sense matrix.
type Coord struct {
	Tx int
	Rx int
}

// Iterator produces an infinite cyclic sequence over the TX×RX grid in
// TX-major order: tx advances first, rx advances on tx wrap. Reaching the
// end of a sweep (rx == RxSize) is signalled by Next returning ok == false;
// the iterator resets to (0,0) and the following call begins a new sweep.
type Iterator struct {
	tx int
	rx int
}

// NewIterator returns an Iterator positioned at (0, 0).
func NewIterator() *Iterator {
	return &Iterator{}
}

// Next returns the next coordinate in the sweep, or ok == false when the
// sweep just completed (the returned Coord is the zero value in that case).
func (it *Iterator) Next() (c Coord, ok bool) {
	if it.rx == RxSize {
		it.tx = 0
		it.rx = 0
		return Coord{}, false
	}

	c = Coord{Tx: it.tx, Rx: it.rx}

	it.tx++
	it.rx += it.tx / TxSize
	it.tx %= TxSize

	return c, true
}

// Reset returns the iterator to (0, 0), starting a fresh sweep.
func (it *Iterator) Reset() {
	it.tx = 0
	it.rx = 0
}

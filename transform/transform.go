// Package transform implements the pure (tx, rx) -> (row, col) layout
// mappings, one per keyboard side, including each side's thumb-cluster
// special case.
package transform

import "github.com/usbarmory/splitec/matrix"

const (
	Rows = 5
	Cols = 12
)

// Func maps an electrical coordinate to a logical (row, col) coordinate.
type Func func(c matrix.Coord) (row, col uint8)

// Left maps the left half: the last RX channel is the thumb cluster,
// mapped into row 4 with a column offset of 2. Every other cell maps
// near-identity.
func Left(c matrix.Coord) (row, col uint8) {
	if c.Rx == matrix.RxSize-1 {
		return 4, uint8(2 + c.Tx)
	}
	return uint8(c.Tx), uint8(c.Rx)
}

// Right maps the right half: RX channel 0 is the thumb cluster, mapped
// into row 4 at column 9-tx. Every other cell maps with a column offset
// of 5.
func Right(c matrix.Coord) (row, col uint8) {
	if c.Rx == 0 {
		return 4, uint8((matrix.TxSize + matrix.RxSize - 2) - c.Tx)
	}
	return uint8(c.Tx), uint8(c.Rx + 5)
}

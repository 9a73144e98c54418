package transform

import (
	"testing"

	"github.com/usbarmory/splitec/matrix"
)

func TestLeftIdentityCells(t *testing.T) {
	row, col := Left(matrix.Coord{Tx: 2, Rx: 3})
	if row != 2 || col != 3 {
		t.Fatalf("Left(2,3) = (%d,%d), want (2,3)", row, col)
	}
}

func TestLeftThumbCluster(t *testing.T) {
	// last RX channel (6) is the thumb row for every tx
	row, col := Left(matrix.Coord{Tx: 2, Rx: matrix.RxSize - 1})
	if row != 4 || col != 4 {
		t.Fatalf("Left thumb(tx=2) = (%d,%d), want (4,4)", row, col)
	}
}

func TestRightIdentityCells(t *testing.T) {
	row, col := Right(matrix.Coord{Tx: 1, Rx: 3})
	if row != 1 || col != 8 {
		t.Fatalf("Right(1,3) = (%d,%d), want (1,8)", row, col)
	}
}

func TestRightThumbCluster(t *testing.T) {
	// RX channel 0 is the thumb row, column runs 9-tx
	row, col := Right(matrix.Coord{Tx: 0, Rx: 0})
	if row != 4 || col != 9 {
		t.Fatalf("Right thumb(tx=0) = (%d,%d), want (4,9)", row, col)
	}
}

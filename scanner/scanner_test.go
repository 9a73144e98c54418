package scanner

import (
	"errors"
	"testing"

	"github.com/usbarmory/splitec/debounce"
	"github.com/usbarmory/splitec/event"
	"github.com/usbarmory/splitec/matrix"
	"github.com/usbarmory/splitec/transform"
)

type fakeTx struct {
	chargeErr  map[int]error
	charged    []int
	discharged []int
}

func (f *fakeTx) ChargeCapacitor(idx int) error {
	f.charged = append(f.charged, idx)
	if f.chargeErr != nil {
		return f.chargeErr[idx]
	}
	return nil
}

func (f *fakeTx) DischargeCapacitor(idx int) error {
	f.discharged = append(f.discharged, idx)
	return nil
}

func (f *fakeTx) DischargeAll() error {
	return nil
}

// scriptedRx returns a fixed sample per (tx, rx) pair, keyed off the last
// ChargeCapacitor call recorded on a shared fakeTx.
type scriptedRx struct {
	tx     *fakeTx
	rx     int
	values [matrix.TxSize][matrix.RxSize]int32
}

func (s *scriptedRx) Select(idx int) error {
	s.rx = idx
	return nil
}

func (s *scriptedRx) Read() (int32, error) {
	lastTx := s.tx.charged[len(s.tx.charged)-1]
	return s.values[lastTx][s.rx], nil
}

func zeroThresholds() [matrix.TxSize][matrix.RxSize]int32 {
	var t [matrix.TxSize][matrix.RxSize]int32
	for tx := range t {
		for rx := range t[tx] {
			t[tx][rx] = 2000
		}
	}
	return t
}

func newDebouncer(t *testing.T) *debounce.Debouncer {
	d, err := debounce.New(matrix.TxSize, matrix.RxSize, 1)
	if err != nil {
		t.Fatalf("debounce.New: %v", err)
	}
	return d
}

// scanSweeps calls Scan up to n×TxSize×RxSize times (each call runs at most
// one full sweep), returning the first non-None event observed.
func scanSweeps(t *testing.T, s *Scanner, n int) event.Event {
	t.Helper()

	for sweep := 0; sweep < n; sweep++ {
		for i := 0; i < matrix.TxSize*matrix.RxSize; i++ {
			e, err := s.Scan()
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if !e.IsNone() {
				return e
			}
		}
	}

	t.Fatal("no event observed")
	return event.Event{}
}

func TestScanReturnsPressWhenAboveThreshold(t *testing.T) {
	tx := &fakeTx{}
	rx := &scriptedRx{tx: tx}
	rx.values[1][2] = 5000 // above the 2000 threshold

	s := New(tx, rx, transform.Left, newDebouncer(t), zeroThresholds(), nil)

	ev := scanSweeps(t, s, 3)

	wantRow, wantCol := transform.Left(matrix.Coord{Tx: 1, Rx: 2})
	if ev.Row != wantRow || ev.Col != wantCol {
		t.Fatalf("event at (%d,%d), want (%d,%d)", ev.Row, ev.Col, wantRow, wantCol)
	}

	if ev.Kind != event.KeyPress {
		t.Fatalf("event kind = %v, want KeyPress", ev.Kind)
	}
}

func TestScanSkipsErroringCellAndContinues(t *testing.T) {
	tx := &fakeTx{chargeErr: map[int]error{0: errors.New("boom")}}
	rx := &scriptedRx{tx: tx}
	rx.values[1][0] = 5000

	s := New(tx, rx, transform.Left, newDebouncer(t), zeroThresholds(), nil)

	// tx=0 errors on every charge; the sweep must skip it and still reach
	// and report the (1,0) cell.
	ev := scanSweeps(t, s, 3)
	if ev.IsNone() {
		t.Fatal("expected the sweep to skip the erroring cell and still find (1,0)")
	}
}

func TestCriticalSectionBracketsChargeAndSample(t *testing.T) {
	tx := &fakeTx{}
	rx := &scriptedRx{tx: tx}
	rx.values[0][0] = 5000

	var insideCritical bool
	var sawChargeInsideCritical bool

	critical := func(fn func()) {
		insideCritical = true
		fn()
		insideCritical = false
	}

	chargeTracking := &trackingTx{fakeTx: tx, onCharge: func() {
		if insideCritical {
			sawChargeInsideCritical = true
		}
	}}

	s := New(chargeTracking, rx, transform.Left, newDebouncer(t), zeroThresholds(), critical)
	s.Scan()

	if !sawChargeInsideCritical {
		t.Fatal("ChargeCapacitor should run inside the critical section")
	}
}

type trackingTx struct {
	*fakeTx
	onCharge func()
}

func (tt *trackingTx) ChargeCapacitor(idx int) error {
	tt.onCharge()
	return tt.fakeTx.ChargeCapacitor(idx)
}

package split

import (
	"context"
	"testing"
	"time"

	"github.com/usbarmory/splitec/codec"
	"github.com/usbarmory/splitec/debounce"
	"github.com/usbarmory/splitec/event"
	"github.com/usbarmory/splitec/matrix"
	"github.com/usbarmory/splitec/scanner"
	"github.com/usbarmory/splitec/transform"
)

type fakeScanTx struct {
	rx *fakeScanRx
}

func (f fakeScanTx) ChargeCapacitor(idx int) error  { f.rx.tx = idx; return nil }
func (fakeScanTx) DischargeCapacitor(idx int) error { return nil }
func (fakeScanTx) DischargeAll() error              { return nil }

// fakeScanRx reports a single cell permanently pressed, so exactly one
// debounced press event is produced across the scanner's lifetime.
type fakeScanRx struct {
	tx int
	rx int
}

func (r *fakeScanRx) Select(idx int) error {
	r.rx = idx
	return nil
}

func (r *fakeScanRx) Read() (int32, error) {
	if r.tx == 0 && r.rx == 0 {
		return 5000, nil
	}
	return 0, nil
}

func newSingleEventScanner(t *testing.T) *scanner.Scanner {
	t.Helper()

	d, err := debounce.New(matrix.TxSize, matrix.RxSize, 1)
	if err != nil {
		t.Fatalf("debounce.New: %v", err)
	}

	var thresholds [matrix.TxSize][matrix.RxSize]int32
	for tx := range thresholds {
		for rx := range thresholds[tx] {
			thresholds[tx][rx] = 2000
		}
	}

	rx := &fakeScanRx{}

	return scanner.New(fakeScanTx{rx: rx}, rx, transform.Left, d, thresholds, nil)
}

type fakeUART struct {
	written chan []byte
}

func newFakeUART() *fakeUART {
	return &fakeUART{written: make(chan []byte, 8)}
}

func (u *fakeUART) Write(buf []byte) (int, error) {
	cp := append([]byte(nil), buf...)
	u.written <- cp
	return len(buf), nil
}

func (u *fakeUART) Receive(stop <-chan struct{}, feed func(b byte, err error)) {
	<-stop
}

func TestRunSlaveForwardsScannedEventToUART(t *testing.T) {
	uart := newFakeUART()

	cfg := Config{
		Master:  false,
		Scanner: newSingleEventScanner(t),
		UART:    uart,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- Run(ctx, cfg) }()

	select {
	case frame := <-uart.written:
		wantRow, wantCol := transform.Left(matrix.Coord{Tx: 0, Rx: 0})
		want := codec.Encode(event.Press(wantRow, wantCol))

		if len(frame) != len(want) || frame[0] != want[0] || frame[1] != want[1] {
			t.Fatalf("forwarded frame = % x, want % x", frame, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame forwarded to UART within 1s")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil on cancellation", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after context cancellation")
	}
}

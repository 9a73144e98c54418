// Package split implements side detection, master/slave role selection,
// and the wiring of the scanner, event queue, inter-half codec and HID
// tick loop into one running firmware image per keyboard half.
package split

import (
	"context"
	"sync"
	"time"

	"github.com/usbarmory/splitec/codec"
	"github.com/usbarmory/splitec/hid"
	"github.com/usbarmory/splitec/keymap"
	"github.com/usbarmory/splitec/queue"
	"github.com/usbarmory/splitec/scanner"
)

// Role is which physical half this firmware image is running on.
type Role int

const (
	Left Role = iota
	Right
)

// ScanDelay is the time the scan loop sleeps between sweeps. 1ms matches
// the high-performance Cortex-M target this repository builds for; a
// low-power target would use 100ms instead.
const ScanDelay = 1 * time.Millisecond

// InputPin reports a GPIO level, used for the handedness and VBUS-sense
// straps.
type InputPin interface {
	Value() (bool, error)
}

// DetectRole reads the handedness strap: high -> Right, low -> Left.
func DetectRole(handedness InputPin) (Role, error) {
	high, err := handedness.Value()
	if err != nil {
		return Left, err
	}

	if high {
		return Right, nil
	}

	return Left, nil
}

// IsMaster reads the VBUS-sense strap: high iff this half is USB-attached.
func IsMaster(vbus InputPin) (bool, error) {
	return vbus.Value()
}

// UART is the capability split requires of the inter-half transport.
type UART interface {
	Write(buf []byte) (int, error)
	Receive(stop <-chan struct{}, feed func(b byte, err error))
}

// Config wires together one half's hardware and role for Run.
type Config struct {
	Master bool

	Scanner *scanner.Scanner
	UART    UART
	Engine  keymap.Engine

	// USB is nil on the slave; it is required when Master is true.
	USB hid.Writer
}

// Run discharges the matrix, spawns the role-appropriate goroutines, and
// runs the local scan loop until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Scanner.DischargeAll(); err != nil {
		return err
	}

	q := queue.New()

	if cfg.Master {
		var mu sync.Mutex

		go decodeLink(ctx, cfg.UART, q)
		go masterConsume(ctx, q, cfg.Engine, &mu)

		tick := hid.NewTickLoop(&mu, cfg.Engine, cfg.USB)
		go tick.Run(ctx.Done())
	} else {
		go forwardLink(ctx, q, cfg.UART)
	}

	return scanLoop(ctx, cfg.Scanner, q)
}

// scanLoop repeatedly scans the local matrix, pushing every debounced
// event onto the queue, sleeping ScanDelay between sweeps.
func scanLoop(ctx context.Context, s *scanner.Scanner, q *queue.Queue) error {
	ticker := time.NewTicker(ScanDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		e, err := s.Scan()
		if err != nil {
			continue
		}

		if !e.IsNone() {
			if err := q.Send(ctx, e); err != nil {
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// decodeLink feeds bytes arriving from the peer half through the codec
// decoder, pushing every successfully decoded event onto the queue. A
// decode error resyncs on the next Header and is otherwise dropped: link
// errors never propagate past the codec.
func decodeLink(ctx context.Context, u UART, q *queue.Queue) {
	dec := codec.NewDecoder()
	stop := make(chan struct{})

	go func() {
		<-ctx.Done()
		close(stop)
	}()

	u.Receive(stop, func(b byte, rxErr error) {
		if rxErr != nil {
			return
		}

		e, ok, err := dec.Feed(b)
		if err != nil || !ok {
			return
		}

		q.Send(ctx, e)
	})
}

// forwardLink dequeues locally scanned events and forwards them to the
// master over UART, one [Header, K] frame per event. Write errors are
// discarded: they are neither logged nor retried, and the next event
// re-establishes framing.
func forwardLink(ctx context.Context, q *queue.Queue, u UART) {
	for {
		e, err := q.Receive(ctx)
		if err != nil {
			return
		}

		u.Write(codec.Encode(e))
	}
}

// masterConsume dequeues events (from the local scanner and from the
// decoded link) and delivers them to the keymap engine, holding mu for
// the duration of each delivery so the HID tick loop never observes a
// partially-applied event.
func masterConsume(ctx context.Context, q *queue.Queue, engine keymap.Engine, mu *sync.Mutex) {
	for {
		e, err := q.Receive(ctx)
		if err != nil {
			return
		}

		mu.Lock()
		engine.Event(e)
		mu.Unlock()
	}
}

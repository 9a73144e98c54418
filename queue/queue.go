// Package queue implements the bounded, single-consumer event channel
// connecting the scanner and UART producers to the keymap consumer.
package queue

import (
	"context"

	"github.com/usbarmory/splitec/event"
)

// Capacity is the fixed size of the event queue.
const Capacity = 20

// Queue is a bounded FIFO of Event, safe for multiple producer goroutines
// and a single consumer goroutine. A full queue blocks its producer; an
// empty queue blocks its consumer, mirroring the cooperative-scheduler
// suspend points of the single-threaded reference runtime.
type Queue struct {
	ch chan event.Event
}

// New returns a Queue with capacity Capacity.
func New() *Queue {
	return &Queue{ch: make(chan event.Event, Capacity)}
}

// Send enqueues e, blocking if the queue is full until ctx is done.
func (q *Queue) Send(ctx context.Context, e event.Event) error {
	select {
	case q.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive dequeues the next event in FIFO order, blocking if the queue is
// empty until ctx is done.
func (q *Queue) Receive(ctx context.Context) (event.Event, error) {
	select {
	case e := <-q.ch:
		return e, nil
	case <-ctx.Done():
		return event.Event{}, ctx.Err()
	}
}

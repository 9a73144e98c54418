// Package codec implements the inter-half byte-framed press/release event
// protocol carried over the split UART link.
package codec

import (
	"github.com/usbarmory/splitec/event"
	"github.com/usbarmory/splitec/kbderr"
)

// Header is the sentinel byte preceding every frame. It never appears in a
// valid payload: the largest encoded index is ROWS*COLS-1 = 59, and its
// release form is 0x80|59 = 0xBB, both below 0xFF.
const Header = 0xFF

const (
	rows = 5
	cols = 12
)

// Encode renders e as its two-byte wire frame [Header, K]. e must be
// KeyPress or KeyRelease with row < ROWS and col < COLS.
func Encode(e event.Event) []byte {
	k := uint8(e.Row)*cols + e.Col

	if e.Kind == event.KeyRelease {
		k |= 0x80
	}

	return []byte{Header, k}
}

// Decode decodes a single payload byte k into its Event. It rejects k
// whose low 7 bits are >= ROWS*COLS.
func Decode(k uint8) (event.Event, error) {
	release := k&0x80 != 0
	idx := k &^ 0x80

	if int(idx) >= rows*cols {
		return event.Event{}, kbderr.ErrDecodeEvent
	}

	row := idx / cols
	col := idx % cols

	if release {
		return event.Release(row, col), nil
	}

	return event.Press(row, col), nil
}

// state is the receiver's resync state.
type state int

const (
	waitHeader state = iota
	haveHeader
)

// Decoder is a streaming receiver implementing the WAIT_HEADER/HAVE_HEADER
// resync state machine of the split-half link. It is fed one byte at a
// time (as bytes arrive from the UART) and reports a decoded event
// whenever a complete, valid frame is recognised.
type Decoder struct {
	st state
}

// NewDecoder returns a Decoder starting in WAIT_HEADER.
func NewDecoder() *Decoder {
	return &Decoder{st: waitHeader}
}

// Feed processes one received byte. ok is true exactly when b completed a
// valid frame, in which case e is the decoded event. A decode error is
// reported but does not stop the receiver: it returns to WAIT_HEADER and
// resyncs on the next Header byte.
func (d *Decoder) Feed(b byte) (e event.Event, ok bool, err error) {
	switch d.st {
	case waitHeader:
		if b == Header {
			d.st = haveHeader
		}
		return event.Event{}, false, nil

	case haveHeader:
		if b == Header {
			// Another header while awaiting a payload: absorbed as
			// resync, stay in HAVE_HEADER.
			return event.Event{}, false, nil
		}

		d.st = waitHeader

		e, err = Decode(b)
		if err != nil {
			return event.Event{}, false, err
		}

		return e, true, nil
	}

	return event.Event{}, false, nil
}

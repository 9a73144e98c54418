package codec

import (
	"testing"

	"github.com/usbarmory/splitec/event"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []event.Event{
		event.Press(0, 0),
		event.Press(4, 11),
		event.Release(2, 5),
		event.Release(4, 11),
	}

	for _, e := range cases {
		frame := Encode(e)
		if len(frame) != 2 || frame[0] != Header {
			t.Fatalf("Encode(%+v) = % x, want [Header, K]", e, frame)
		}

		got, err := Decode(frame[1])
		if err != nil {
			t.Fatalf("Decode(%#x): %v", frame[1], err)
		}

		if got != e {
			t.Fatalf("round trip: got %+v, want %+v", got, e)
		}
	}
}

func TestDecodeRejectsOutOfRangeIndex(t *testing.T) {
	if _, err := Decode(60); err == nil {
		t.Fatal("Decode(60) should fail: 60 >= ROWS*COLS")
	}

	if _, err := Decode(0x80 | 60); err == nil {
		t.Fatal("Decode(0x80|60) should fail: same bound on release frames")
	}
}

func TestDecoderIgnoresNoiseBeforeHeader(t *testing.T) {
	dec := NewDecoder()

	for _, b := range []byte{0x00, 0x01, 0x12} {
		_, ok, err := dec.Feed(b)
		if ok || err != nil {
			t.Fatalf("Feed(%#x) before header: ok=%v err=%v", b, ok, err)
		}
	}

	_, ok, err := dec.Feed(Header)
	if ok || err != nil {
		t.Fatalf("Feed(Header): ok=%v err=%v", ok, err)
	}

	e, ok, err := dec.Feed(5)
	if err != nil || !ok {
		t.Fatalf("Feed(5) after header: ok=%v err=%v", ok, err)
	}

	if e != event.Press(0, 5) {
		t.Fatalf("got %+v, want Press(0,5)", e)
	}
}

// TestResyncOnRepeatedHeader feeds the decoder one byte run: noise, two
// back-to-back headers (the second is absorbed and keeps HAVE_HEADER
// armed), a payload that decodes against them, then a fresh header and a
// second payload. Each payload yields its own event.
func TestResyncOnRepeatedHeader(t *testing.T) {
	dec := NewDecoder()

	input := []byte{0x12, Header, Header, 0x05, Header, 43}
	var got []event.Event

	for _, b := range input {
		e, ok, err := dec.Feed(b)
		if err != nil {
			t.Fatalf("Feed(%#x): %v", b, err)
		}
		if ok {
			got = append(got, e)
		}
	}

	want := []event.Event{event.Press(0, 5), event.Press(3, 7)}

	if len(got) != len(want) {
		t.Fatalf("got %d events %+v, want %d %+v", len(got), got, len(want), want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecoderResyncsAfterDecodeError(t *testing.T) {
	dec := NewDecoder()

	dec.Feed(Header)

	if _, ok, err := dec.Feed(200); ok || err == nil {
		t.Fatalf("Feed(200) should fail to decode: ok=%v err=%v", ok, err)
	}

	dec.Feed(Header)
	e, ok, err := dec.Feed(0)
	if err != nil || !ok {
		t.Fatalf("Feed(0) after resync: ok=%v err=%v", ok, err)
	}

	if e != event.Press(0, 0) {
		t.Fatalf("got %+v, want Press(0,0)", e)
	}
}

package wire

import (
	"bytes"
	"testing"
)

func TestFrameAppendsDelimiterOnce(t *testing.T) {
	framed := Frame([]byte("AAPL,172.53,1696180200.0"), DefaultDelimiter)
	if !bytes.Equal(framed, []byte("AAPL,172.53,1696180200.0*")) {
		t.Fatalf("unexpected frame: %q", framed)
	}
	if got := Frame(framed, DefaultDelimiter); !bytes.Equal(got, framed) {
		t.Fatalf("double framing changed payload: %q", got)
	}
}

func TestFrameDoesNotMutateCaller(t *testing.T) {
	payload := make([]byte, 3, 8)
	copy(payload, "a,b")
	_ = Frame(payload, DefaultDelimiter)
	if payload[:cap(payload)][3] == DefaultDelimiter {
		t.Fatal("frame wrote into the caller's backing array")
	}
}

func TestTrimDelimiter(t *testing.T) {
	if got := TrimDelimiter([]byte("x,1*"), '*'); !bytes.Equal(got, []byte("x,1")) {
		t.Fatalf("trim: %q", got)
	}
	if got := TrimDelimiter([]byte("x,1"), '*'); !bytes.Equal(got, []byte("x,1")) {
		t.Fatalf("trim without delimiter: %q", got)
	}
}

func TestDeframerReassemblesAcrossChunks(t *testing.T) {
	stream := []byte("AAPL,172.53,1.0*MSFT,312.10,1.5*GOOG,1")
	want := [][]byte{
		[]byte("AAPL,172.53,1.0"),
		[]byte("MSFT,312.10,1.5"),
		[]byte("GOOG,140.00,2.0"),
	}

	// Every split point of the stream must yield the same messages.
	for cut := 0; cut <= len(stream); cut++ {
		d := NewDeframer('*')
		var got [][]byte
		got = append(got, d.Feed(stream[:cut])...)
		got = append(got, d.Feed(stream[cut:])...)
		got = append(got, d.Feed([]byte("40.00,2.0*"))...)

		if len(got) != len(want) {
			t.Fatalf("cut %d: got %d messages, want %d", cut, len(got), len(want))
		}
		for i := range want {
			if !bytes.Equal(got[i], want[i]) {
				t.Fatalf("cut %d message %d: got %q want %q", cut, i, got[i], want[i])
			}
		}
		if d.Pending() != 0 {
			t.Fatalf("cut %d: %d bytes left pending", cut, d.Pending())
		}
	}
}

func TestDeframerDropsEmptyMessages(t *testing.T) {
	d := NewDeframer('*')
	got := d.Feed([]byte("**a,1***b,2*"))
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2: %q", len(got), got)
	}
}

func TestDeframerReturnsCopies(t *testing.T) {
	d := NewDeframer('*')
	chunk := []byte("a,1*")
	got := d.Feed(chunk)
	chunk[0] = 'z'
	if !bytes.Equal(got[0], []byte("a,1")) {
		t.Fatalf("message aliases the input chunk: %q", got[0])
	}
}

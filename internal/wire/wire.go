package wire

import (
	"bytes"
	"strings"
)

// DefaultDelimiter terminates every logical message on the wire.
const DefaultDelimiter byte = '*'

// FieldSeparator joins the comma-separated fields inside a payload.
const FieldSeparator = ","

// Frame appends the delimiter to payload unless it is already present.
// Empty payloads come back unchanged.
func Frame(payload []byte, delim byte) []byte {
	if len(payload) == 0 {
		return payload
	}
	if payload[len(payload)-1] == delim {
		return payload
	}
	framed := make([]byte, len(payload)+1)
	copy(framed, payload)
	framed[len(payload)] = delim
	return framed
}

// TrimDelimiter strips a single trailing delimiter byte when present.
func TrimDelimiter(payload []byte, delim byte) []byte {
	if n := len(payload); n > 0 && payload[n-1] == delim {
		return payload[:n-1]
	}
	return payload
}

// JoinFields builds a payload from comma-separated text fields.
func JoinFields(fields ...string) []byte {
	return []byte(strings.Join(fields, FieldSeparator))
}

// SplitFields splits a payload into its comma-separated text fields.
// A trailing delimiter must be trimmed by the caller first.
func SplitFields(payload []byte) []string {
	return strings.Split(string(payload), FieldSeparator)
}

// Deframer reassembles delimiter-terminated messages from an arbitrarily
// chunked byte stream. Bytes after the last delimiter stay buffered until
// the next Feed call. Zero-length messages are dropped.
type Deframer struct {
	delim byte
	buf   []byte
}

// NewDeframer creates a deframer for the given delimiter byte.
func NewDeframer(delim byte) *Deframer {
	return &Deframer{delim: delim}
}

// Feed appends chunk to the internal buffer and returns every complete
// payload found, in stream order, with the delimiter stripped. Returned
// slices are copies and remain valid after subsequent calls.
func (d *Deframer) Feed(chunk []byte) [][]byte {
	d.buf = append(d.buf, chunk...)

	var out [][]byte
	for {
		idx := bytes.IndexByte(d.buf, d.delim)
		if idx < 0 {
			break
		}
		if idx > 0 {
			msg := make([]byte, idx)
			copy(msg, d.buf[:idx])
			out = append(out, msg)
		}
		d.buf = d.buf[idx+1:]
	}
	if len(d.buf) == 0 {
		d.buf = nil
	}
	return out
}

// Pending reports how many bytes are buffered waiting for a delimiter.
func (d *Deframer) Pending() int {
	return len(d.buf)
}

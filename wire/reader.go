// Package wire implements the bit-exact binary codec and length-prefix
// framing for the Tezos peer-to-peer handshake messages.
//
// Every multi-byte integer is big-endian. Variable-length fields carry an
// explicit u16 byte-length prefix, and every message on the stream is
// preceded by a 2-byte big-endian length of the payload that follows.
//
// Example:
//
//	msg, err := wire.ParseConnectionMessage(payload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("peer chain:", msg.Version.ChainName)
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated indicates a message ended before a declared or fixed-size
// field could be read in full.
var ErrTruncated = errors.New("truncated message")

// reader is a bounds-checked big-endian cursor over a decoded payload.
// Every read names the field it was after so parse failures identify
// what was missing.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) readByte(field string) (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%s: %w", field, ErrTruncated)
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readUint16(field string) (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("%s: %w: need 2 bytes, have %d", field, ErrTruncated, r.remaining())
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) readBytes(field string, n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%s: %w: need %d bytes, have %d", field, ErrTruncated, n, r.remaining())
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:])
	r.off += n
	return out, nil
}

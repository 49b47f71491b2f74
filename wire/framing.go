package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// LengthPrefixSize is the width of the frame length prefix.
const LengthPrefixSize = 2

// MaxFrameSize is the largest payload a 2-byte length prefix can carry.
const MaxFrameSize = 0xffff

// ErrFrameTooLarge indicates a payload exceeding MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame payload too large")

// Frame prepends the 2-byte big-endian length prefix to payload. For
// encrypted messages the payload, and so the prefix, covers the
// ciphertext including its authentication tag.
func Frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	buf := make([]byte, 0, LengthPrefixSize+len(payload))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(payload)))
	return append(buf, payload...), nil
}

// WriteFrame writes payload to w as a single length-prefixed frame.
func WriteFrame(w io.Writer, payload []byte) error {
	frame, err := Frame(payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one length prefix from r, then exactly that many
// payload bytes.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}

	payload := make([]byte, binary.BigEndian.Uint16(prefix[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}

package crypto

import (
	"crypto/rand"
	"encoding/binary"
)

// NonceSize is the byte length of a crypto_box nonce.
const NonceSize = 24

// nonceWords is the number of 16-bit limbs backing a nonce.
const nonceWords = NonceSize / 2

// Nonce is a 24-byte big-endian counter, used at most once per message
// per direction under a given key. It is held as 12 big-endian 16-bit
// words so that the bounded increment stays cheap.
type Nonce struct {
	words [nonceWords]uint16
}

// NewNonce builds a nonce from exactly 24 raw bytes. Any other length
// fails with *KeySizeError.
func NewNonce(buf []byte) (Nonce, error) {
	var n Nonce
	if len(buf) != NonceSize {
		return n, &KeySizeError{Expected: NonceSize, Actual: len(buf)}
	}
	for i := range n.words {
		n.words[i] = binary.BigEndian.Uint16(buf[i*2:])
	}
	return n, nil
}

// RandomNonce fills a nonce from crypto/rand. It is used only for the
// message_nonce field of the connection message, never for session
// counters.
func RandomNonce() (Nonce, error) {
	var buf [NonceSize]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Nonce{}, err
	}
	n, err := NewNonce(buf[:])
	if err != nil {
		return Nonce{}, err
	}
	return n, nil
}

// Increment returns the successor of n: one is added to the last word
// and the carry propagates leftward while a word overflows 16 bits.
// Overflow past the first word wraps the counter to zero.
func (n Nonce) Increment() Nonce {
	next := n
	for pos := nonceWords - 1; ; pos-- {
		sum := uint32(next.words[pos]) + 1
		next.words[pos] = uint16(sum & 0xffff)
		if sum < 0x10000 || pos == 0 {
			break
		}
	}
	return next
}

// Bytes reassembles the 24-byte big-endian representation. It round-trips
// exactly with NewNonce.
func (n Nonce) Bytes() [NonceSize]byte {
	var buf [NonceSize]byte
	for i, w := range n.words {
		binary.BigEndian.PutUint16(buf[i*2:], w)
	}
	return buf
}

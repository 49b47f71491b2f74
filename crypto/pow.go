package crypto

import (
	"encoding/hex"
	"fmt"
)

// ProofOfWorkSize is the byte length of a proof-of-work stamp.
const ProofOfWorkSize = 24

// ProofOfWork is the opaque stamp a peer asserts as part of its
// identity. It is carried verbatim in the connection message; checking
// the stamp is out of scope here.
type ProofOfWork [ProofOfWorkSize]byte

// ProofOfWorkFromBytes copies buf into a ProofOfWork. Any length other
// than 24 fails with *KeySizeError.
func ProofOfWorkFromBytes(buf []byte) (ProofOfWork, error) {
	var pow ProofOfWork
	if len(buf) != ProofOfWorkSize {
		return pow, &KeySizeError{Expected: ProofOfWorkSize, Actual: len(buf)}
	}
	copy(pow[:], buf)
	return pow, nil
}

// ProofOfWorkFromHex decodes a hex-encoded proof-of-work stamp.
func ProofOfWorkFromHex(s string) (ProofOfWork, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return ProofOfWork{}, fmt.Errorf("decode proof-of-work hex: %w", err)
	}
	return ProofOfWorkFromBytes(buf)
}

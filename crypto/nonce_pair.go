package crypto

import (
	"errors"

	"golang.org/x/crypto/blake2b"
)

// Direction seeds mixed into the nonce derivation. The concatenation
// order is fixed by which side initiated the transport connection, so
// both peers compute the same two digests.
var (
	initToRespSeed = []byte("Init -> Resp")
	respToInitSeed = []byte("Resp -> Init")
)

// ErrInvalidDigestLength indicates the derivation hash produced fewer
// bytes than a nonce needs. It is an internal invariant violation, not
// expected in normal operation.
var ErrInvalidDigestLength = errors.New("nonce derivation digest too short")

// NoncePair holds the two directional session nonces. Local seeds the
// messages this node sends, Remote the messages it receives.
type NoncePair struct {
	Local  Nonce
	Remote Nonce
}

// GenerateNonces derives the directional nonce pair from the raw framed
// connection messages exchanged during the handshake. sentMsg and recvMsg
// are the exact bytes this side wrote to and read from the stream.
// incoming is true when the peer initiated the transport connection.
//
// Each side assigns the digest covering its own sending direction as
// Local and the other as Remote, so complementary incoming flags yield
// mirrored pairs without any extra negotiation.
func GenerateNonces(sentMsg, recvMsg []byte, incoming bool) (NoncePair, error) {
	initMsg, respMsg := sentMsg, recvMsg
	if incoming {
		initMsg, respMsg = recvMsg, sentMsg
	}

	nonceInitToResp, err := deriveNonce(initMsg, respMsg, initToRespSeed)
	if err != nil {
		return NoncePair{}, err
	}
	nonceRespToInit, err := deriveNonce(initMsg, respMsg, respToInitSeed)
	if err != nil {
		return NoncePair{}, err
	}

	if incoming {
		return NoncePair{Local: nonceInitToResp, Remote: nonceRespToInit}, nil
	}
	return NoncePair{Local: nonceRespToInit, Remote: nonceInitToResp}, nil
}

// deriveNonce computes Blake2b-256(initMsg || respMsg || seed) and keeps
// the first 24 bytes.
func deriveNonce(initMsg, respMsg, seed []byte) (Nonce, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return Nonce{}, err
	}
	h.Write(initMsg)
	h.Write(respMsg)
	h.Write(seed)

	digest := h.Sum(nil)
	if len(digest) < NonceSize {
		return Nonce{}, ErrInvalidDigestLength
	}
	return NewNonce(digest[:NonceSize])
}

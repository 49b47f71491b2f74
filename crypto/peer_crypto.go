package crypto

import "sync"

// PeerCrypto is the encrypted session state for one connection. It
// couples the precomputed shared key with the directional nonce pair and
// advances the matching nonce on every encrypt and decrypt.
type PeerCrypto struct {
	mu     sync.Mutex
	key    PrecomputedKey
	nonces NoncePair
}

// NewPeerCrypto builds a session from an already derived key and nonce
// pair.
func NewPeerCrypto(key PrecomputedKey, nonces NoncePair) *PeerCrypto {
	return &PeerCrypto{key: key, nonces: nonces}
}

// BuildPeerCrypto derives the session state for one connection: the
// nonce pair from the framed connection messages (see GenerateNonces)
// and the precomputed key from the local secret and peer public keys.
func BuildPeerCrypto(localSecret SecretKey, peerPublic PublicKey, sentConnMsg, recvConnMsg []byte, incoming bool) (*PeerCrypto, error) {
	nonces, err := GenerateNonces(sentConnMsg, recvConnMsg, incoming)
	if err != nil {
		return nil, err
	}
	return NewPeerCrypto(Precompute(peerPublic, localSecret), nonces), nil
}

// localNonceFetchIncrement returns the current local nonce and stores its
// increment, as a single atomic step.
func (pc *PeerCrypto) localNonceFetchIncrement() Nonce {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	nonce := pc.nonces.Local
	pc.nonces.Local = nonce.Increment()
	return nonce
}

// remoteNonceFetchIncrement returns the current remote nonce and stores
// its increment, as a single atomic step.
func (pc *PeerCrypto) remoteNonceFetchIncrement() Nonce {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	nonce := pc.nonces.Remote
	pc.nonces.Remote = nonce.Increment()
	return nonce
}

// Encrypt seals data under the current local nonce and advances it.
// Every sent message is bound to a unique, strictly increasing nonce.
func (pc *PeerCrypto) Encrypt(data []byte) []byte {
	return pc.key.Encrypt(data, pc.localNonceFetchIncrement())
}

// Decrypt opens data under the current remote nonce and advances it.
// The remote counter moves even when authentication fails, matching the
// sender having consumed that nonce.
func (pc *PeerCrypto) Decrypt(data []byte) ([]byte, error) {
	return pc.key.Decrypt(data, pc.remoteNonceFetchIncrement())
}

// Package crypto implements the cryptographic primitives for the Tezos
// peer-to-peer handshake.
//
// This package handles key wrapping, precomputed NaCl box encryption,
// the 24-byte counter nonce, and the keyed derivation of the per-direction
// nonce pair from the exchanged connection messages.
//
// Example:
//
//	pk, err := crypto.PublicKeyFromHex("17f7d118...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	key := crypto.Precompute(pk, sk)
//	ciphertext := key.Encrypt(msg, nonce)
package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// KeySize is the byte length of public, secret and precomputed keys.
const KeySize = 32

// ErrFailedToDecrypt indicates the ciphertext failed authentication.
// It is reported uniformly whether the key, the nonce or the ciphertext
// itself was wrong.
var ErrFailedToDecrypt = errors.New("failed to decrypt")

// KeySizeError reports a buffer whose length does not match the fixed
// size required by a key, nonce or proof-of-work constructor.
type KeySizeError struct {
	Expected int
	Actual   int
}

func (e *KeySizeError) Error() string {
	return fmt.Sprintf("invalid key size, expected: %d, actual: %d", e.Expected, e.Actual)
}

// PublicKey is a NaCl crypto_box public key.
type PublicKey [KeySize]byte

// SecretKey is a NaCl crypto_box secret key.
type SecretKey [KeySize]byte

// PublicKeyFromBytes copies buf into a PublicKey. Any 32-byte buffer is
// accepted; any other length fails with *KeySizeError.
func PublicKeyFromBytes(buf []byte) (PublicKey, error) {
	var pk PublicKey
	if len(buf) != KeySize {
		return pk, &KeySizeError{Expected: KeySize, Actual: len(buf)}
	}
	copy(pk[:], buf)
	return pk, nil
}

// SecretKeyFromBytes copies buf into a SecretKey with the same contract
// as PublicKeyFromBytes.
func SecretKeyFromBytes(buf []byte) (SecretKey, error) {
	var sk SecretKey
	if len(buf) != KeySize {
		return sk, &KeySizeError{Expected: KeySize, Actual: len(buf)}
	}
	copy(sk[:], buf)
	return sk, nil
}

// PublicKeyFromHex decodes a hex-encoded public key.
func PublicKeyFromHex(s string) (PublicKey, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("decode public key hex: %w", err)
	}
	return PublicKeyFromBytes(buf)
}

// SecretKeyFromHex decodes a hex-encoded secret key.
func SecretKeyFromHex(s string) (SecretKey, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return SecretKey{}, fmt.Errorf("decode secret key hex: %w", err)
	}
	return SecretKeyFromBytes(buf)
}

// PrecomputedKey is the shared secret derived once per session from a
// (secret key, public key) pair. It amortizes the Curve25519 scalar
// multiplication across every encrypt and decrypt call of the session.
// It is never written to the wire.
type PrecomputedKey [KeySize]byte

// Precompute derives the shared secret for the given peer public key and
// local secret key. It is deterministic and has no failure mode.
func Precompute(peerPublic PublicKey, localSecret SecretKey) PrecomputedKey {
	var shared, pk, sk [KeySize]byte
	pk = peerPublic
	sk = localSecret
	box.Precompute(&shared, &pk, &sk)
	return PrecomputedKey(shared)
}

// Encrypt seals msg with the precomputed key and the given nonce. The
// result is len(msg)+box.Overhead bytes.
func (k PrecomputedKey) Encrypt(msg []byte, nonce Nonce) []byte {
	nonceBytes := nonce.Bytes()
	key := [KeySize]byte(k)
	return box.SealAfterPrecomputation(nil, msg, &nonceBytes, &key)
}

// Decrypt opens enc with the precomputed key and the given nonce. Any
// authentication failure is reported as ErrFailedToDecrypt.
func (k PrecomputedKey) Decrypt(enc []byte, nonce Nonce) ([]byte, error) {
	nonceBytes := nonce.Bytes()
	key := [KeySize]byte(k)
	msg, ok := box.OpenAfterPrecomputation(nil, enc, &nonceBytes, &key)
	if !ok {
		return nil, ErrFailedToDecrypt
	}
	return msg, nil
}

package crypto

import (
	"encoding/json"
	"fmt"
	"os"
)

// Identity is this node's identity record, as produced by the Tezos
// identity generator. Every field is hex-decoded and size-validated
// before use.
type Identity struct {
	// PeerID is the base58 hash of the public key.
	PeerID           string
	PublicKey        PublicKey
	SecretKey        SecretKey
	ProofOfWorkStamp ProofOfWork
}

// rawIdentity mirrors the JSON identity file, all fields hex strings.
type rawIdentity struct {
	PeerID           string `json:"peer_id"`
	PublicKey        string `json:"public_key"`
	SecretKey        string `json:"secret_key"`
	ProofOfWorkStamp string `json:"proof_of_work_stamp"`
}

// LoadIdentity parses a Tezos identity JSON document. It fails fast on
// the first missing or invalid field, naming the field in the error.
func LoadIdentity(data []byte) (*Identity, error) {
	var raw rawIdentity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse identity json: %w", err)
	}

	if raw.PeerID == "" {
		return nil, fmt.Errorf("identity: missing 'peer_id'")
	}
	publicKey, err := PublicKeyFromHex(raw.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("identity: invalid 'public_key': %w", err)
	}
	secretKey, err := SecretKeyFromHex(raw.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("identity: invalid 'secret_key': %w", err)
	}
	pow, err := ProofOfWorkFromHex(raw.ProofOfWorkStamp)
	if err != nil {
		return nil, fmt.Errorf("identity: invalid 'proof_of_work_stamp': %w", err)
	}

	return &Identity{
		PeerID:           raw.PeerID,
		PublicKey:        publicKey,
		SecretKey:        secretKey,
		ProofOfWorkStamp: pow,
	}, nil
}

// LoadIdentityFile reads and parses an identity file from disk.
func LoadIdentityFile(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity file: %w", err)
	}
	return LoadIdentity(data)
}

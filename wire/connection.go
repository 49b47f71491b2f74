package wire

import (
	"encoding/binary"
	"fmt"
)

// Fixed field widths of the connection message.
const (
	PublicKeyLength   = 32
	ProofOfWorkLength = 24
	NonceLength       = 24
)

// ConnectionMessage is the first, unencrypted message of the handshake.
// Both sides send one; the exchanged bytes seed the session key and
// nonce derivation.
type ConnectionMessage struct {
	Port             uint16
	PublicKey        [PublicKeyLength]byte
	ProofOfWorkStamp [ProofOfWorkLength]byte
	MessageNonce     [NonceLength]byte
	// VersionLength is written as zero and carries whatever the peer
	// declared on decode.
	VersionLength uint16
	Version       NetworkVersion
}

// NewConnectionMessage builds a connection message with a zero
// VersionLength, matching what the reference node emits.
func NewConnectionMessage(port uint16, publicKey [PublicKeyLength]byte, pow [ProofOfWorkLength]byte, nonce [NonceLength]byte, version NetworkVersion) *ConnectionMessage {
	return &ConnectionMessage{
		Port:             port,
		PublicKey:        publicKey,
		ProofOfWorkStamp: pow,
		MessageNonce:     nonce,
		Version:          version,
	}
}

// Serialize encodes the message big-endian in wire order.
func (m *ConnectionMessage) Serialize() ([]byte, error) {
	version, err := m.Version.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize connection message: %w", err)
	}

	buf := make([]byte, 0, 2+PublicKeyLength+ProofOfWorkLength+NonceLength+2+len(version))
	buf = binary.BigEndian.AppendUint16(buf, m.Port)
	buf = append(buf, m.PublicKey[:]...)
	buf = append(buf, m.ProofOfWorkStamp[:]...)
	buf = append(buf, m.MessageNonce[:]...)
	buf = binary.BigEndian.AppendUint16(buf, m.VersionLength)
	buf = append(buf, version...)
	return buf, nil
}

// ParseConnectionMessage decodes a connection message, rejecting
// truncated input.
func ParseConnectionMessage(data []byte) (*ConnectionMessage, error) {
	r := newReader(data)
	msg := &ConnectionMessage{}

	var err error
	if msg.Port, err = r.readUint16("port"); err != nil {
		return nil, fmt.Errorf("parse connection message: %w", err)
	}
	publicKey, err := r.readBytes("public_key", PublicKeyLength)
	if err != nil {
		return nil, fmt.Errorf("parse connection message: %w", err)
	}
	copy(msg.PublicKey[:], publicKey)
	pow, err := r.readBytes("proof_of_work_stamp", ProofOfWorkLength)
	if err != nil {
		return nil, fmt.Errorf("parse connection message: %w", err)
	}
	copy(msg.ProofOfWorkStamp[:], pow)
	nonce, err := r.readBytes("message_nonce", NonceLength)
	if err != nil {
		return nil, fmt.Errorf("parse connection message: %w", err)
	}
	copy(msg.MessageNonce[:], nonce)
	if msg.VersionLength, err = r.readUint16("version_length"); err != nil {
		return nil, fmt.Errorf("parse connection message: %w", err)
	}
	if err = parseNetworkVersion(r, &msg.Version); err != nil {
		return nil, fmt.Errorf("parse connection message: %w", err)
	}

	return msg, nil
}

// NetworkVersion names the logical network the peer wants to join and
// the protocol revisions it speaks.
type NetworkVersion struct {
	ChainName            string
	DistributedDBVersion uint16
	P2PVersion           uint16
}

// NewNetworkVersion builds a version descriptor for the given chain.
func NewNetworkVersion(chainName string, distributedDBVersion, p2pVersion uint16) NetworkVersion {
	return NetworkVersion{
		ChainName:            chainName,
		DistributedDBVersion: distributedDBVersion,
		P2PVersion:           p2pVersion,
	}
}

// Serialize encodes the descriptor with a u16 byte-length prefix on the
// chain name.
func (v *NetworkVersion) Serialize() ([]byte, error) {
	name := []byte(v.ChainName)
	if len(name) > 0xffff {
		return nil, fmt.Errorf("chain name too long: %d bytes", len(name))
	}

	buf := make([]byte, 0, 2+len(name)+4)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(name)))
	buf = append(buf, name...)
	buf = binary.BigEndian.AppendUint16(buf, v.DistributedDBVersion)
	buf = binary.BigEndian.AppendUint16(buf, v.P2PVersion)
	return buf, nil
}

func parseNetworkVersion(r *reader, v *NetworkVersion) error {
	nameLen, err := r.readUint16("chain_name_length")
	if err != nil {
		return err
	}
	name, err := r.readBytes("chain_name", int(nameLen))
	if err != nil {
		return err
	}
	v.ChainName = string(name)
	if v.DistributedDBVersion, err = r.readUint16("distributed_db_version"); err != nil {
		return err
	}
	if v.P2PVersion, err = r.readUint16("p2p_version"); err != nil {
		return err
	}
	return nil
}

// ParseNetworkVersion decodes a standalone version descriptor.
func ParseNetworkVersion(data []byte) (*NetworkVersion, error) {
	r := newReader(data)
	v := &NetworkVersion{}
	if err := parseNetworkVersion(r, v); err != nil {
		return nil, fmt.Errorf("parse network version: %w", err)
	}
	return v, nil
}

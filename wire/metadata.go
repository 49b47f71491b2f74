package wire

import "fmt"

// MetadataMessage is the second handshake message, sent encrypted. Two
// single-byte flags, no length prefix.
type MetadataMessage struct {
	DisableMempool bool
	PrivateNode    bool
}

// NewMetadataMessage builds a metadata message.
func NewMetadataMessage(disableMempool, privateNode bool) *MetadataMessage {
	return &MetadataMessage{
		DisableMempool: disableMempool,
		PrivateNode:    privateNode,
	}
}

// Serialize encodes the two flags as one byte each.
func (m *MetadataMessage) Serialize() []byte {
	return []byte{encodeBool(m.DisableMempool), encodeBool(m.PrivateNode)}
}

// ParseMetadataMessage decodes a metadata message. Flag bytes other than
// 0x00 and 0x01 are rejected.
func ParseMetadataMessage(data []byte) (*MetadataMessage, error) {
	r := newReader(data)
	msg := &MetadataMessage{}

	var err error
	if msg.DisableMempool, err = readBool(r, "disable_mempool"); err != nil {
		return nil, fmt.Errorf("parse metadata message: %w", err)
	}
	if msg.PrivateNode, err = readBool(r, "private_node"); err != nil {
		return nil, fmt.Errorf("parse metadata message: %w", err)
	}
	return msg, nil
}

func encodeBool(v bool) byte {
	if v {
		return 0x01
	}
	return 0x00
}

func readBool(r *reader, field string) (bool, error) {
	b, err := r.readByte(field)
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%s: invalid bool byte 0x%02x", field, b)
	}
}

package wire

import (
	"errors"
	"fmt"
)

// AckStatus is the final handshake message, sent encrypted.
type AckStatus int

// Acknowledgement variants. The wire tags are fixed by the protocol and
// non-sequential (NackV1 is historically numbered after NackV2), so they
// are mapped explicitly below rather than by declaration order.
const (
	AckStatusAck AckStatus = iota
	AckStatusNackV1
	AckStatusNackV2
)

const (
	tagAck    byte = 0x00
	tagNackV1 byte = 0xFF
	tagNackV2 byte = 0x01
)

// ErrUnknownAckTag indicates a received acknowledgement carried a tag
// outside the closed variant set.
var ErrUnknownAckTag = errors.New("unknown ack tag")

func (s AckStatus) String() string {
	switch s {
	case AckStatusAck:
		return "Ack"
	case AckStatusNackV1:
		return "NackV1"
	case AckStatusNackV2:
		return "NackV2"
	default:
		return fmt.Sprintf("AckStatus(%d)", int(s))
	}
}

// Serialize encodes the status as its single wire tag byte.
func (s AckStatus) Serialize() ([]byte, error) {
	switch s {
	case AckStatusAck:
		return []byte{tagAck}, nil
	case AckStatusNackV1:
		return []byte{tagNackV1}, nil
	case AckStatusNackV2:
		return []byte{tagNackV2}, nil
	default:
		return nil, fmt.Errorf("serialize ack status: unknown variant %d", int(s))
	}
}

// ParseAckStatus decodes an acknowledgement message.
func ParseAckStatus(data []byte) (AckStatus, error) {
	r := newReader(data)
	tag, err := r.readByte("ack_tag")
	if err != nil {
		return 0, fmt.Errorf("parse ack status: %w", err)
	}
	switch tag {
	case tagAck:
		return AckStatusAck, nil
	case tagNackV1:
		return AckStatusNackV1, nil
	case tagNackV2:
		return AckStatusNackV2, nil
	default:
		return 0, fmt.Errorf("parse ack status: %w: 0x%02x", ErrUnknownAckTag, tag)
	}
}

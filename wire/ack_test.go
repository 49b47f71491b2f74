package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAckStatusTagTable(t *testing.T) {
	tests := []struct {
		status AckStatus
		tag    byte
	}{
		{status: AckStatusAck, tag: 0x00},
		{status: AckStatusNackV1, tag: 0xFF},
		{status: AckStatusNackV2, tag: 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			data, err := tt.status.Serialize()
			require.NoError(t, err)
			assert.Equal(t, []byte{tt.tag}, data)

			got, err := ParseAckStatus([]byte{tt.tag})
			require.NoError(t, err)
			assert.Equal(t, tt.status, got)
		})
	}
}

func TestParseAckStatusUnknownTag(t *testing.T) {
	for _, tag := range []byte{0x02, 0x7F, 0xFE} {
		_, err := ParseAckStatus([]byte{tag})
		assert.ErrorIs(t, err, ErrUnknownAckTag, "tag 0x%02x", tag)
	}
}

func TestParseAckStatusEmpty(t *testing.T) {
	_, err := ParseAckStatus(nil)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestSerializeUnknownAckVariant(t *testing.T) {
	_, err := AckStatus(42).Serialize()
	assert.Error(t, err)
}

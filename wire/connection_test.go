package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConnectionMessage() *ConnectionMessage {
	var pk [PublicKeyLength]byte
	var pow [ProofOfWorkLength]byte
	var nonce [NonceLength]byte
	for i := range pk {
		pk[i] = 0xAA
	}
	for i := range pow {
		pow[i] = 0xBB
	}
	for i := range nonce {
		nonce[i] = 0xCC
	}
	return NewConnectionMessage(9732, pk, pow, nonce, NewNetworkVersion("TEZOS_MAINNET", 2, 1))
}

func TestConnectionMessageGoldenBytes(t *testing.T) {
	data, err := sampleConnectionMessage().Serialize()
	require.NoError(t, err)

	want := []byte{0x26, 0x04}
	want = append(want, bytes.Repeat([]byte{0xAA}, PublicKeyLength)...)
	want = append(want, bytes.Repeat([]byte{0xBB}, ProofOfWorkLength)...)
	want = append(want, bytes.Repeat([]byte{0xCC}, NonceLength)...)
	want = append(want, 0x00, 0x00) // version_length, always written zero
	want = append(want, 0x00, 0x0D)
	want = append(want, []byte("TEZOS_MAINNET")...)
	want = append(want, 0x00, 0x02, 0x00, 0x01)

	assert.Equal(t, want, data)
}

func TestConnectionMessageRoundTrip(t *testing.T) {
	msg := sampleConnectionMessage()
	data, err := msg.Serialize()
	require.NoError(t, err)

	got, err := ParseConnectionMessage(data)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestConnectionMessageTruncated(t *testing.T) {
	data, err := sampleConnectionMessage().Serialize()
	require.NoError(t, err)

	// Every proper prefix must be rejected, never panic.
	for cut := 0; cut < len(data); cut++ {
		_, err := ParseConnectionMessage(data[:cut])
		assert.ErrorIs(t, err, ErrTruncated, "prefix of %d bytes", cut)
	}
}

func TestConnectionMessageChainNameLengthOverrun(t *testing.T) {
	data, err := sampleConnectionMessage().Serialize()
	require.NoError(t, err)

	// Inflate the declared chain_name_length past the remaining bytes.
	nameLenOff := 2 + PublicKeyLength + ProofOfWorkLength + NonceLength + 2
	data[nameLenOff] = 0xFF
	data[nameLenOff+1] = 0xFF

	_, err = ParseConnectionMessage(data)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "chain_name")
}

func TestNetworkVersionRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		version NetworkVersion
	}{
		{name: "mainnet", version: NewNetworkVersion("TEZOS_MAINNET", 2, 1)},
		{name: "empty chain name", version: NewNetworkVersion("", 0, 0)},
		{name: "non-ascii chain name", version: NewNetworkVersion("TEZOS_ÄLPHANET", 7, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.version.Serialize()
			require.NoError(t, err)

			got, err := ParseNetworkVersion(data)
			require.NoError(t, err)
			assert.Equal(t, tt.version, *got)
		})
	}
}

func TestParseConnectionMessagePreservesDeclaredVersionLength(t *testing.T) {
	data, err := sampleConnectionMessage().Serialize()
	require.NoError(t, err)

	got, err := ParseConnectionMessage(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), got.VersionLength)
}

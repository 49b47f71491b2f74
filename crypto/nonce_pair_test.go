package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNoncesMirrored(t *testing.T) {
	initiatorMsg := []byte("connection message sent by the initiator")
	responderMsg := []byte("connection message sent by the responder")

	// The initiator passes its own bytes as sent, the responder the
	// opposite, with complementary incoming flags.
	initiator, err := GenerateNonces(initiatorMsg, responderMsg, false)
	require.NoError(t, err)
	responder, err := GenerateNonces(responderMsg, initiatorMsg, true)
	require.NoError(t, err)

	assert.Equal(t, initiator.Local, responder.Remote)
	assert.Equal(t, initiator.Remote, responder.Local)
	assert.NotEqual(t, initiator.Local, initiator.Remote)
}

func TestGenerateNoncesDeterministic(t *testing.T) {
	sent := []byte{0x01, 0x02, 0x03}
	recv := []byte{0x04, 0x05, 0x06}

	first, err := GenerateNonces(sent, recv, false)
	require.NoError(t, err)
	second, err := GenerateNonces(sent, recv, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateNoncesDependOnDirectionAssignment(t *testing.T) {
	sent := []byte("aaaa")
	recv := []byte("bbbb")

	outgoing, err := GenerateNonces(sent, recv, false)
	require.NoError(t, err)
	incoming, err := GenerateNonces(sent, recv, true)
	require.NoError(t, err)

	// Same computing side but flipped initiation direction reorders the
	// concatenation, so the digests themselves differ.
	assert.NotEqual(t, outgoing.Local, incoming.Local)
	assert.NotEqual(t, outgoing.Remote, incoming.Remote)
}

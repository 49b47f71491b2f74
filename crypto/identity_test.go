package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIdentityJSON = `{ "peer_id": "idsfYM6UbG2nhNS1dqhsJEchaDhmd9",
  "public_key":
    "17f7d11892274a7230d969aa1335d25e637f43087b76d0e24a1a8b7d03168f5c",
  "secret_key":
    "0271fac86d020aebe6a1c9768381e7245e48e77524cca2a1652d0a621fac289f",
  "proof_of_work_stamp": "b6a4a80d765047918b037c85958c41096326a4b52ff0377e" }`

func TestLoadIdentity(t *testing.T) {
	identity, err := LoadIdentity([]byte(sampleIdentityJSON))
	require.NoError(t, err)

	assert.Equal(t, "idsfYM6UbG2nhNS1dqhsJEchaDhmd9", identity.PeerID)

	wantPub, err := PublicKeyFromHex("17f7d11892274a7230d969aa1335d25e637f43087b76d0e24a1a8b7d03168f5c")
	require.NoError(t, err)
	assert.Equal(t, wantPub, identity.PublicKey)

	wantPow, err := ProofOfWorkFromHex("b6a4a80d765047918b037c85958c41096326a4b52ff0377e")
	require.NoError(t, err)
	assert.Equal(t, wantPow, identity.ProofOfWorkStamp)
}

func TestLoadIdentityInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "not json", json: `{"peer_id":`},
		{name: "missing peer_id", json: `{"public_key": "aa", "secret_key": "bb", "proof_of_work_stamp": "cc"}`},
		{
			name: "short public_key",
			json: `{"peer_id": "id", "public_key": "17f7",
			  "secret_key": "0271fac86d020aebe6a1c9768381e7245e48e77524cca2a1652d0a621fac289f",
			  "proof_of_work_stamp": "b6a4a80d765047918b037c85958c41096326a4b52ff0377e"}`,
		},
		{
			name: "non-hex secret_key",
			json: `{"peer_id": "id",
			  "public_key": "17f7d11892274a7230d969aa1335d25e637f43087b76d0e24a1a8b7d03168f5c",
			  "secret_key": "zz71fac86d020aebe6a1c9768381e7245e48e77524cca2a1652d0a621fac289f",
			  "proof_of_work_stamp": "b6a4a80d765047918b037c85958c41096326a4b52ff0377e"}`,
		},
		{
			name: "missing proof_of_work_stamp",
			json: `{"peer_id": "id",
			  "public_key": "17f7d11892274a7230d969aa1335d25e637f43087b76d0e24a1a8b7d03168f5c",
			  "secret_key": "0271fac86d020aebe6a1c9768381e7245e48e77524cca2a1652d0a621fac289f"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadIdentity([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestLoadIdentityFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleIdentityJSON), 0o600))

	identity, err := LoadIdentityFile(path)
	require.NoError(t, err)
	assert.Equal(t, "idsfYM6UbG2nhNS1dqhsJEchaDhmd9", identity.PeerID)

	_, err = LoadIdentityFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestProofOfWorkFromHex(t *testing.T) {
	pow, err := ProofOfWorkFromHex("b6a4a80d765047918b037c85958c41096326a4b52ff0377e")
	require.NoError(t, err)
	assert.Equal(t, byte(0xb6), pow[0])
	assert.Equal(t, byte(0x7e), pow[23])

	_, err = ProofOfWorkFromHex("0123456789abcdef0123456789abcdef")
	var sizeErr *KeySizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, ProofOfWorkSize, sizeErr.Expected)
	assert.Equal(t, 16, sizeErr.Actual)
}

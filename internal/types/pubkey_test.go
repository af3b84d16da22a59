package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubkeyRoundTrip(t *testing.T) {
	// the system program id is the all-zero key
	zero, err := ParsePubkey("11111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.Equal(t, "11111111111111111111111111111111", ZeroPubkey.String())

	pk := Pubkey{0xde, 0xad, 0xbe, 0xef}
	parsed, err := ParsePubkey(pk.String())
	require.NoError(t, err)
	assert.Equal(t, pk, parsed)
	assert.False(t, parsed.IsZero())
}

func TestParsePubkeyErrors(t *testing.T) {
	for _, in := range []string{"", "0OIl", "abc"} {
		_, err := ParsePubkey(in)
		assert.Error(t, err, in)
	}
	_, err := PubkeyFromBytes([]byte{1, 2})
	assert.Error(t, err)
}

func TestPubkeyJSON(t *testing.T) {
	pk := Pubkey{7}
	out, err := json.Marshal(map[string]Pubkey{"staker": pk})
	require.NoError(t, err)

	var back map[string]Pubkey
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, pk, back["staker"])
}

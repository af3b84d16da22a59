package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakeRecordLayout(t *testing.T) {
	staker := Pubkey{1, 2, 3}
	record := &StakeRecord{
		Staker:          staker,
		DepositAmount:   100_000_000,
		RewardAmount:    1_643_835,
		StartTime:       1_700_000_000,
		DurationSeconds: 60 * SecondsPerDay,
		Claimed:         true,
		Tier:            TierSilver,
		Index:           7,
	}

	data, err := record.MarshalBinary()
	require.NoError(t, err)
	// same size the deployed program allocates for stake accounts
	require.Len(t, data, 82)

	disc := AccountDiscriminator(StakeRecordAccountName)
	assert.Equal(t, disc[:], data[:8])
	assert.Equal(t, staker[:], data[8:40])
	// deposit amount, little endian
	assert.Equal(t, []byte{0x00, 0xe1, 0xf5, 0x05, 0, 0, 0, 0}, data[40:48])
	assert.Equal(t, byte(1), data[72], "claimed flag")
	assert.Equal(t, byte(1), data[73], "tier discriminant")
	assert.Equal(t, byte(7), data[74])

	var decoded StakeRecord
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, *record, decoded)
	assert.Equal(t, record.StartTime+60*SecondsPerDay, decoded.UnlockTime())
}

func TestGlobalConfigLayout(t *testing.T) {
	cfg := &GlobalConfig{
		Admin:              Pubkey{9},
		AcceptedAsset:      Pubkey{8},
		MonthlyCap:         50_000,
		PausedStaking:      true,
		MonthlyDistributed: 12,
		EpochStart:         -1,
	}
	data, err := cfg.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, DiscriminatorLength+GlobalConfigLen)

	var decoded GlobalConfig
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, *cfg, decoded)
}

func TestLayoutRejectsForeignAccounts(t *testing.T) {
	counter := &StakeCounter{Count: 3}
	data, err := counter.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 16)

	var record StakeRecord
	require.Error(t, record.UnmarshalBinary(data))

	// right size, wrong discriminator
	padded := make([]byte, DiscriminatorLength+StakeRecordLen)
	copy(padded, data)
	require.ErrorContains(t, record.UnmarshalBinary(padded), "discriminator mismatch")

	var decoded StakeCounter
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, uint64(3), decoded.Count)
}

func TestStakeRecordLayoutUnknownTier(t *testing.T) {
	record := &StakeRecord{Tier: Tier("Platinum")}
	_, err := record.MarshalBinary()
	require.Error(t, err)
}

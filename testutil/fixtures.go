package testutil

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

const baseUnitsPerToken = 1_000_000

func RandomPubkey(t testing.TB) types.Pubkey {
	t.Helper()
	var pk types.Pubkey
	for i := range pk {
		pk[i] = gofakeit.Uint8()
	}
	return pk
}

// RandomWholeAmount returns a base unit amount of min..max whole tokens.
func RandomWholeAmount(min, max uint) uint64 {
	return uint64(gofakeit.UintRange(min, max)) * baseUnitsPerToken
}

func CreateStakeDocument(t testing.TB, staker types.Pubkey, index uint64) *model.StakeDocument {
	t.Helper()
	var doc model.StakeDocument
	err := gofakeit.Struct(&doc)
	require.NoError(t, err)

	// random uint64 values overflow the int64 mongo stores, and the
	// remaining fields must stay consistent with each other
	doc.ID = model.StakeID(staker, index)
	doc.Staker = staker.String()
	doc.Index = index
	doc.DepositAmount = RandomWholeAmount(100, 500_000)
	doc.RewardAmount = doc.DepositAmount / 10
	doc.StartTime = int64(gofakeit.UintRange(1_600_000_000, 1_800_000_000))
	doc.DurationSeconds = 60 * types.SecondsPerDay
	doc.UnlockTime = doc.StartTime + doc.DurationSeconds
	doc.Claimed = false
	doc.ClaimedAt = 0
	doc.Tier = types.Tier(gofakeit.RandomString([]string{"Bronze", "Silver", "Gold"}))
	doc.ApyBasisPoints = uint64(gofakeit.UintRange(400, 2000))
	doc.Mint = RandomPubkey(t).String()

	return &doc
}

func CreateTokenAccount(t testing.TB, owner, mint types.Pubkey, amount uint64) *model.TokenAccountDocument {
	t.Helper()
	return model.NewTokenAccountDocument(&types.TokenAccount{
		Address: RandomPubkey(t),
		Mint:    mint,
		Owner:   owner,
		Amount:  amount,
	})
}

package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/rewards"
	"github.com/skorlabs/skorstaking/internal/types"
	"github.com/skorlabs/skorstaking/testutil"
)

func TestStake(t *testing.T) {
	env := newTestEnv(t, 50_000)
	staker := testutil.RandomPubkey(t)
	env.fund(t, staker, 1_000)

	doc, err := env.svc.Stake(t.Context(), &StakeRequest{
		Staker:   staker,
		Amount:   rewards.MinimumStake,
		Duration: types.DurationSixty,
		Mint:     env.mint,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StakeID(staker, 0), doc.ID)
	assert.Equal(t, uint64(0), doc.Index)
	assert.Equal(t, rewards.MinimumStake, doc.DepositAmount)
	// 100 tokens at 4% for 60 days
	assert.Equal(t, uint64(657_534), doc.RewardAmount)
	assert.Equal(t, types.TierBronze, doc.Tier)
	assert.Equal(t, uint64(400), doc.ApyBasisPoints)
	assert.Equal(t, genesis, doc.StartTime)
	assert.Equal(t, 60*day, doc.DurationSeconds)
	assert.Equal(t, genesis+60*day, doc.UnlockTime)
	assert.False(t, doc.Claimed)

	assert.Equal(t, 900*rewards.Scale, env.balance(t, staker))
	assert.Equal(t, rewards.MinimumStake, env.vaultBalance(t))

	stored, err := env.svc.GetStake(t.Context(), staker, 0)
	require.NoError(t, err)
	assert.Equal(t, doc, stored)

	count, err := env.store.GetStakeCounter(t.Context(), staker)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	timeLocks, err := env.store.FindUnlockedStakes(t.Context(), doc.UnlockTime, 10)
	require.NoError(t, err)
	require.Len(t, timeLocks, 1)
	assert.Equal(t, doc.ID, timeLocks[0].StakeID)

	require.Equal(t, []types.EventType{types.EventStakeCreated}, env.eventTypes())
	assert.Equal(t, staker.String(), env.events[0].Staker)
	assert.Equal(t, doc.RewardAmount, env.events[0].RewardAmount)
}

func TestStakeTiers(t *testing.T) {
	env := newTestEnv(t, 50_000)
	staker := testutil.RandomPubkey(t)
	env.fund(t, staker, 1_000_000)

	cases := []struct {
		whole    uint64
		duration types.StakingDuration
		tier     types.Tier
		apy      uint64
	}{
		{99_999, types.DurationNinety, types.TierBronze, 600},
		{100_000, types.DurationOneEighty, types.TierSilver, 1200},
		{299_999, types.DurationSixty, types.TierSilver, 600},
		{300_000, types.DurationThreeSixtyFive, types.TierGold, 2000},
	}
	for i, c := range cases {
		doc, err := env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   staker,
			Amount:   c.whole * rewards.Scale,
			Duration: c.duration,
			Mint:     env.mint,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), doc.Index)
		assert.Equal(t, c.tier, doc.Tier, "%d tokens", c.whole)
		assert.Equal(t, c.apy, doc.ApyBasisPoints, "%d tokens", c.whole)

		days, _ := c.duration.Days()
		want, err := rewards.Reward(c.whole*rewards.Scale, c.apy, days)
		require.NoError(t, err)
		assert.Equal(t, want, doc.RewardAmount)
	}
}

func TestStakeMinimum(t *testing.T) {
	env := newTestEnv(t, 50_000)
	staker := testutil.RandomPubkey(t)
	env.fund(t, staker, 1_000)

	for _, amount := range []uint64{0, 1, rewards.MinimumStake - 1} {
		_, err := env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   staker,
			Amount:   amount,
			Duration: types.DurationSixty,
			Mint:     env.mint,
		})
		assert.ErrorIs(t, err, types.ErrBelowMinimum, "amount %d", amount)
	}
	assert.Equal(t, 1_000*rewards.Scale, env.balance(t, staker))

	assert.Equal(t, uint64(0), env.stake(t, staker, 100, types.DurationSixty))
}

func TestStakeIndicesHaveNoGaps(t *testing.T) {
	env := newTestEnv(t, 50_000)
	staker := testutil.RandomPubkey(t)
	env.fund(t, staker, 10_000)

	var got []uint64
	for i := 0; i < 6; i++ {
		got = append(got, env.stake(t, staker, 100, types.DurationSixty))

		// failed stakes in between never consume an index
		_, err := env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   staker,
			Amount:   rewards.MinimumStake,
			Duration: types.StakingDuration(42),
			Mint:     env.mint,
		})
		require.ErrorIs(t, err, types.ErrInvalidDuration)
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5}, got)

	// indices are per staker
	other := testutil.RandomPubkey(t)
	env.fund(t, other, 100)
	assert.Equal(t, uint64(0), env.stake(t, other, 100, types.DurationNinety))
}

func TestConcurrentStakesGetUniqueIndices(t *testing.T) {
	env := newTestEnv(t, 50_000)
	staker := testutil.RandomPubkey(t)
	const n = 20
	env.fund(t, staker, n*100)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indices = map[uint64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := env.svc.Stake(t.Context(), &StakeRequest{
				Staker:   staker,
				Amount:   rewards.MinimumStake,
				Duration: types.DurationSixty,
				Mint:     env.mint,
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			indices[doc.Index] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, indices, n)
	for i := uint64(0); i < n; i++ {
		assert.True(t, indices[i], "index %d", i)
	}
	assert.Zero(t, env.balance(t, staker))
	assert.Equal(t, n*rewards.MinimumStake, env.vaultBalance(t))
}

func TestStakeRejections(t *testing.T) {
	t.Run("paused before anything else", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		_, err := env.svc.SetPauseStaking(t.Context(), env.admin, true)
		require.NoError(t, err)

		_, err = env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   testutil.RandomPubkey(t),
			Amount:   1,
			Duration: types.StakingDuration(99),
			Mint:     testutil.RandomPubkey(t),
		})
		assert.ErrorIs(t, err, types.ErrStakingPaused)
	})

	t.Run("mint precision", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		nine := testutil.RandomPubkey(t)
		_, err := env.svc.RegisterMint(t.Context(), nine, env.mintAuthority, 9)
		require.NoError(t, err)

		_, err = env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   testutil.RandomPubkey(t),
			Amount:   1,
			Duration: types.DurationSixty,
			Mint:     nine,
		})
		assert.ErrorIs(t, err, types.ErrInvalidDecimals)
	})

	t.Run("unknown mint", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		_, err := env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   testutil.RandomPubkey(t),
			Amount:   rewards.MinimumStake,
			Duration: types.DurationSixty,
			Mint:     testutil.RandomPubkey(t),
		})
		assert.ErrorIs(t, err, types.ErrInvalidMint)
	})

	t.Run("balance", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		staker := testutil.RandomPubkey(t)
		req := &StakeRequest{
			Staker:   staker,
			Amount:   rewards.MinimumStake,
			Duration: types.DurationSixty,
			Mint:     env.mint,
		}

		// no token account at all
		_, err := env.svc.Stake(t.Context(), req)
		assert.ErrorIs(t, err, types.ErrInsufficientTokenBalance)

		env.fund(t, staker, 99)
		_, err = env.svc.Stake(t.Context(), req)
		assert.ErrorIs(t, err, types.ErrInsufficientTokenBalance)
		assert.Equal(t, 99*rewards.Scale, env.balance(t, staker))
	})

	t.Run("token account of someone else", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		victim := testutil.RandomPubkey(t)
		env.fund(t, victim, 1_000)
		source, err := custody.AssociatedTokenAddress(victim, env.mint)
		require.NoError(t, err)

		_, err = env.svc.Stake(t.Context(), &StakeRequest{
			Staker:           testutil.RandomPubkey(t),
			Amount:           rewards.MinimumStake,
			Duration:         types.DurationSixty,
			Mint:             env.mint,
			UserTokenAccount: &source,
		})
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		assert.Equal(t, 1_000*rewards.Scale, env.balance(t, victim))
	})

	t.Run("asset other than the accepted one", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		staker := testutil.RandomPubkey(t)
		other := testutil.RandomPubkey(t)
		_, err := env.svc.RegisterMint(t.Context(), other, env.mintAuthority, rewards.Decimals)
		require.NoError(t, err)
		_, err = env.svc.MintTo(t.Context(), env.mintAuthority, other, staker, 1_000*rewards.Scale)
		require.NoError(t, err)

		_, err = env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   staker,
			Amount:   rewards.MinimumStake,
			Duration: types.DurationSixty,
			Mint:     other,
		})
		assert.ErrorIs(t, err, types.ErrUnauthorizedToken)

		// accepted mint presented with a token account of the other mint
		source, err := custody.AssociatedTokenAddress(staker, other)
		require.NoError(t, err)
		_, err = env.svc.Stake(t.Context(), &StakeRequest{
			Staker:           staker,
			Amount:           rewards.MinimumStake,
			Duration:         types.DurationSixty,
			Mint:             env.mint,
			UserTokenAccount: &source,
		})
		assert.ErrorIs(t, err, types.ErrInvalidMint)
	})

	t.Run("invalid duration moves nothing", func(t *testing.T) {
		env := newTestEnv(t, 50_000)
		staker := testutil.RandomPubkey(t)
		env.fund(t, staker, 1_000)

		_, err := env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   staker,
			Amount:   rewards.MinimumStake,
			Duration: types.StakingDuration(4),
			Mint:     env.mint,
		})
		assert.ErrorIs(t, err, types.ErrInvalidDuration)
		assert.Equal(t, 1_000*rewards.Scale, env.balance(t, staker))
		assert.Zero(t, env.vaultBalance(t))
		assert.Empty(t, env.eventTypes())
	})

	t.Run("vault missing", func(t *testing.T) {
		env := newUninitializedEnv(t)
		// a config written without the vault the initialization opens
		require.NoError(t, env.store.InsertGlobalConfig(t.Context(), model.NewGlobalConfigDocument(&types.GlobalConfig{
			Admin:         env.admin,
			AcceptedAsset: env.mint,
			MonthlyCap:    1,
			EpochStart:    genesis,
		})))
		staker := testutil.RandomPubkey(t)
		env.fund(t, staker, 1_000)

		_, err := env.svc.Stake(t.Context(), &StakeRequest{
			Staker:   staker,
			Amount:   rewards.MinimumStake,
			Duration: types.DurationSixty,
			Mint:     env.mint,
		})
		assert.ErrorIs(t, err, types.ErrInvalidVaultOwner)
		assert.Equal(t, 1_000*rewards.Scale, env.balance(t, staker))
	})
}

func TestInitializeOpensDerivedVault(t *testing.T) {
	env := newTestEnv(t, 1)

	vault, err := env.svc.Addresses().Vault(env.mint)
	require.NoError(t, err)
	pool, err := env.svc.Addresses().RewardsPool(env.mint)
	require.NoError(t, err)
	require.NotEqual(t, vault, pool)
	authority, _, err := env.svc.Addresses().VaultAuthority()
	require.NoError(t, err)

	for _, address := range []types.Pubkey{vault, pool} {
		account, err := env.store.GetTokenAccount(t.Context(), address)
		require.NoError(t, err)
		assert.Equal(t, authority, account.Owner)
		assert.Equal(t, env.mint, account.Mint)
		assert.Zero(t, account.Amount)
	}
}

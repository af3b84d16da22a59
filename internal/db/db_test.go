//go:build integration

package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
	"github.com/skorlabs/skorstaking/testutil"
)

func TestGlobalConfig(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	_, err := testDB.GetGlobalConfig(ctx)
	assert.True(t, db.IsNotFoundError(err))

	cfg := &types.GlobalConfig{
		Admin:         testutil.RandomPubkey(t),
		AcceptedAsset: testutil.RandomPubkey(t),
		MonthlyCap:    50_000,
		EpochStart:    1_700_000_000,
	}
	require.NoError(t, testDB.InsertGlobalConfig(ctx, model.NewGlobalConfigDocument(cfg)))
	assert.True(t, db.IsDuplicateKeyError(testDB.InsertGlobalConfig(ctx, model.NewGlobalConfigDocument(cfg))))

	cfg.PausedStaking = true
	cfg.MonthlyDistributed = 1_234
	require.NoError(t, testDB.UpdateGlobalConfig(ctx, model.NewGlobalConfigDocument(cfg)))

	doc, err := testDB.GetGlobalConfig(ctx)
	require.NoError(t, err)
	got, err := doc.ToGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStakes(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})
	staker := testutil.RandomPubkey(t)

	t.Run("allocate index", func(t *testing.T) {
		count, err := testDB.GetStakeCounter(ctx, staker)
		require.NoError(t, err)
		assert.Zero(t, count)

		for want := uint64(0); want < 3; want++ {
			idx, err := testDB.AllocateStakeIndex(ctx, staker)
			require.NoError(t, err)
			assert.Equal(t, want, idx)
			require.NoError(t, testDB.SaveNewStake(ctx, testutil.CreateStakeDocument(t, staker, idx)))
		}

		count, err = testDB.GetStakeCounter(ctx, staker)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), count)
	})

	t.Run("duplicate stake", func(t *testing.T) {
		err := testDB.SaveNewStake(ctx, testutil.CreateStakeDocument(t, staker, 0))
		assert.True(t, db.IsDuplicateKeyError(err))
	})

	t.Run("list by staker", func(t *testing.T) {
		stakes, err := testDB.GetStakesByStaker(ctx, staker, 1, 10)
		require.NoError(t, err)
		require.Len(t, stakes, 2)
		assert.Equal(t, uint64(1), stakes[0].Index)
		assert.Equal(t, uint64(2), stakes[1].Index)

		stakes, err = testDB.GetStakesByStaker(ctx, testutil.RandomPubkey(t), 0, 10)
		require.NoError(t, err)
		assert.Empty(t, stakes)
	})

	t.Run("claim once", func(t *testing.T) {
		require.NoError(t, testDB.MarkStakeClaimed(ctx, staker, 1, 77))
		assert.True(t, db.IsNotFoundError(testDB.MarkStakeClaimed(ctx, staker, 1, 78)))

		doc, err := testDB.GetStake(ctx, staker, 1)
		require.NoError(t, err)
		assert.True(t, doc.Claimed)
		assert.Equal(t, int64(77), doc.ClaimedAt)
	})

	t.Run("missing stake", func(t *testing.T) {
		_, err := testDB.GetStake(ctx, staker, 99)
		assert.True(t, db.IsNotFoundError(err))
	})
}

func TestTokenLedger(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	mint := &types.Mint{Address: testutil.RandomPubkey(t), Decimals: 6, MintAuthority: testutil.RandomPubkey(t)}
	require.NoError(t, testDB.SaveNewMint(ctx, model.NewMintDocument(mint)))
	require.NoError(t, testDB.IncreaseMintSupply(ctx, mint.Address, 1_000))
	got, err := testDB.GetMint(ctx, mint.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), got.Supply)

	accDoc := testutil.CreateTokenAccount(t, testutil.RandomPubkey(t), mint.Address, 500)
	require.NoError(t, testDB.SaveNewTokenAccount(ctx, accDoc))
	addr, err := types.ParsePubkey(accDoc.Address)
	require.NoError(t, err)

	assert.ErrorIs(t, testDB.DebitTokenAccount(ctx, addr, 501), custody.ErrInsufficientFunds)
	require.NoError(t, testDB.DebitTokenAccount(ctx, addr, 200))
	require.NoError(t, testDB.CreditTokenAccount(ctx, addr, 50))

	acc, err := testDB.GetTokenAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(350), acc.Amount)

	_, err = testDB.GetTokenAccount(ctx, testutil.RandomPubkey(t))
	assert.True(t, db.IsNotFoundError(err))
	assert.True(t, db.IsNotFoundError(testDB.DebitTokenAccount(ctx, testutil.RandomPubkey(t), 1)))

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := testDB.DebitTokenAccount(context.Background(), addr, 100); err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 3, success)

		acc, err := testDB.GetTokenAccount(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), acc.Amount)
	})
}

func TestWithTransaction(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	staker := testutil.RandomPubkey(t)
	boom := errors.New("boom")

	err := testDB.WithTransaction(ctx, func(ctx context.Context) error {
		idx, err := testDB.AllocateStakeIndex(ctx, staker)
		if err != nil {
			return err
		}
		if err := testDB.SaveNewStake(ctx, testutil.CreateStakeDocument(t, staker, idx)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := testDB.GetStakeCounter(ctx, staker)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = testDB.GetStake(ctx, staker, 0)
	assert.True(t, db.IsNotFoundError(err))

	err = testDB.WithTransaction(ctx, func(ctx context.Context) error {
		idx, err := testDB.AllocateStakeIndex(ctx, staker)
		if err != nil {
			return err
		}
		return testDB.SaveNewStake(ctx, testutil.CreateStakeDocument(t, staker, idx))
	})
	require.NoError(t, err)
	_, err = testDB.GetStake(ctx, staker, 0)
	require.NoError(t, err)
}

func TestTimeLock(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("no documents", func(t *testing.T) {
		docs, err := testDB.FindUnlockedStakes(ctx, 1<<40, 10)
		require.NoError(t, err)
		assert.Nil(t, docs)
	})

	t.Run("find documents", func(t *testing.T) {
		staker := testutil.RandomPubkey(t)
		early := model.NewTimeLockDocument(model.StakeID(staker, 0), staker.String(), 0, 100, string(types.StakeUnlockTimeLockType))
		exact := model.NewTimeLockDocument(model.StakeID(staker, 1), staker.String(), 1, 500, string(types.StakeUnlockTimeLockType))
		later := model.NewTimeLockDocument(model.StakeID(staker, 2), staker.String(), 2, 900, string(types.StakeUnlockTimeLockType))
		for _, doc := range []*model.TimeLockDocument{later, exact, early} {
			require.NoError(t, testDB.SaveNewTimeLock(ctx, doc))
		}
		assert.True(t, db.IsDuplicateKeyError(testDB.SaveNewTimeLock(ctx, early)))

		// by choosing exactly the unlock time of one document we test the
		// equal part of the lte query
		docs, err := testDB.FindUnlockedStakes(ctx, exact.UnlockTime, 10)
		require.NoError(t, err)
		assert.Equal(t, []model.TimeLockDocument{*early, *exact}, docs)

		require.NoError(t, testDB.DeleteTimeLock(ctx, early.StakeID))
		assert.True(t, db.IsNotFoundError(testDB.DeleteTimeLock(ctx, early.StakeID)))
	})
}

func TestStats(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("no stakes", func(t *testing.T) {
		totals, err := testDB.CalculateStakeTotals(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, &model.StakeTotals{}, totals)

		stakers, err := testDB.CalculateStakerTotals(ctx)
		require.NoError(t, err)
		assert.Empty(t, stakers)
	})

	t.Run("totals split by claim status", func(t *testing.T) {
		alice, bob := testutil.RandomPubkey(t), testutil.RandomPubkey(t)
		a0 := testutil.CreateStakeDocument(t, alice, 0)
		a1 := testutil.CreateStakeDocument(t, alice, 1)
		b0 := testutil.CreateStakeDocument(t, bob, 0)
		for _, d := range []*model.StakeDocument{a0, a1, b0} {
			require.NoError(t, testDB.SaveNewStake(ctx, d))
		}
		require.NoError(t, testDB.MarkStakeClaimed(ctx, alice, 1, 1))

		totals, err := testDB.CalculateStakeTotals(ctx, &alice)
		require.NoError(t, err)
		assert.Equal(t, model.StakeTotals{
			TotalStaked:    a0.DepositAmount,
			ActiveStakes:   1,
			TotalClaimed:   a1.DepositAmount,
			ClaimedStakes:  1,
			PendingRewards: a0.RewardAmount,
			RewardsPaid:    a1.RewardAmount,
		}, *totals)

		overall, err := testDB.CalculateStakeTotals(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, a0.DepositAmount+b0.DepositAmount, overall.TotalStaked)
		assert.Equal(t, uint64(2), overall.ActiveStakes)

		stakers, err := testDB.CalculateStakerTotals(ctx)
		require.NoError(t, err)
		assert.Len(t, stakers, 2)

		for _, st := range stakers {
			st.LastUpdated = 10
			require.NoError(t, testDB.UpsertStakerStats(ctx, st))
		}
		stored, err := testDB.GetStakerStats(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, b0.DepositAmount, stored.TotalStaked)
	})

	t.Run("overall stats document", func(t *testing.T) {
		_, err := testDB.GetOverallStats(ctx)
		assert.True(t, db.IsNotFoundError(err))

		doc := &model.OverallStatsDocument{StakeTotals: model.StakeTotals{TotalStaked: 5}, Stakers: 1, LastUpdated: 3}
		require.NoError(t, testDB.UpsertOverallStats(ctx, doc))
		doc.TotalStaked = 6
		require.NoError(t, testDB.UpsertOverallStats(ctx, doc))

		got, err := testDB.GetOverallStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(6), got.TotalStaked)
	})
}

func TestRequestSignatures(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})
	signer := testutil.RandomPubkey(t).String()

	doc := model.NewRequestSignatureDocument("sig", signer, 1_700_000_000, 5*time.Minute)
	require.NoError(t, testDB.SaveRequestSignature(ctx, doc))
	assert.True(t, db.IsDuplicateKeyError(testDB.SaveRequestSignature(ctx, doc)))

	other := model.NewRequestSignatureDocument("other", signer, 1_700_000_000, 5*time.Minute)
	require.NoError(t, testDB.SaveRequestSignature(ctx, other))
}

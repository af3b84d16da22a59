package memdb

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
	ctx := context.Background()
	s := New()

	_, err := s.GetGlobalConfig(ctx)
	assert.True(t, db.IsNotFoundError(err))
	assert.True(t, db.IsNotFoundError(s.UpdateGlobalConfig(ctx, &model.GlobalConfigDocument{})))

	doc := &model.GlobalConfigDocument{Admin: testutil.RandomPubkey(t).String(), MonthlyCap: 10}
	require.NoError(t, s.InsertGlobalConfig(ctx, doc))
	assert.True(t, db.IsDuplicateKeyError(s.InsertGlobalConfig(ctx, doc)))

	got, err := s.GetGlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.GlobalConfigID, got.ID)
	assert.Equal(t, uint64(10), got.MonthlyCap)

	// returned documents are copies
	got.MonthlyCap = 99
	again, err := s.GetGlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), again.MonthlyCap)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner, mint := testutil.RandomPubkey(t), testutil.RandomPubkey(t)
	acc := testutil.CreateTokenAccount(t, owner, mint, 1_000)
	require.NoError(t, s.SaveNewTokenAccount(ctx, acc))
	addr, err := types.ParsePubkey(acc.Address)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.DebitTokenAccount(ctx, addr, 400))
		_, err := s.AllocateStakeIndex(ctx, owner)
		require.NoError(t, err)
		// nested calls join the outer transaction
		return s.WithTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, s.InsertGlobalConfig(ctx, &model.GlobalConfigDocument{}))
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetTokenAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), got.Amount)

	count, err := s.GetStakeCounter(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.GetGlobalConfig(ctx)
	assert.True(t, db.IsNotFoundError(err))
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := testutil.RandomPubkey(t)

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		for i := 0; i < 3; i++ {
			idx, err := s.AllocateStakeIndex(ctx, owner)
			if err != nil {
				return err
			}
			if err := s.SaveNewStake(ctx, testutil.CreateStakeDocument(t, owner, idx)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	count, err := s.GetStakeCounter(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	stakes, err := s.GetStakesByStaker(ctx, owner, 1, 10)
	require.NoError(t, err)
	require.Len(t, stakes, 2)
	assert.Equal(t, uint64(1), stakes[0].Index)
	assert.Equal(t, uint64(2), stakes[1].Index)
}

func TestConcurrentAllocationsAreUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := testutil.RandomPubkey(t)

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[uint64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithTransaction(ctx, func(ctx context.Context) error {
				idx, err := s.AllocateStakeIndex(ctx, owner)
				if err != nil {
					return err
				}
				mu.Lock()
				seen[idx] = true
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestDebitNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	s := New()
	acc := testutil.CreateTokenAccount(t, testutil.RandomPubkey(t), testutil.RandomPubkey(t), 100)
	require.NoError(t, s.SaveNewTokenAccount(ctx, acc))
	addr, err := types.ParsePubkey(acc.Address)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DebitTokenAccount(ctx, addr, 101), custody.ErrInsufficientFunds)
	require.NoError(t, s.DebitTokenAccount(ctx, addr, 100))
	assert.ErrorIs(t, s.DebitTokenAccount(ctx, addr, 1), custody.ErrInsufficientFunds)

	assert.True(t, db.IsNotFoundError(s.DebitTokenAccount(ctx, testutil.RandomPubkey(t), 1)))
}

func TestRequestSignaturesExpire(t *testing.T) {
	ctx := context.Background()
	s := New()
	signer := testutil.RandomPubkey(t).String()

	first := model.NewRequestSignatureDocument("sig-a", signer, 1_000, time.Minute)
	require.NoError(t, s.SaveRequestSignature(ctx, first))
	assert.True(t, db.IsDuplicateKeyError(s.SaveRequestSignature(ctx, first)))
	require.NoError(t, s.SaveRequestSignature(ctx, model.NewRequestSignatureDocument("sig-b", signer, 1_030, time.Minute)))

	// a request signed after sig-a expired prunes it
	require.NoError(t, s.SaveRequestSignature(ctx, model.NewRequestSignatureDocument("sig-c", signer, 1_061, time.Minute)))
	require.NoError(t, s.SaveRequestSignature(ctx, first))
	assert.True(t, db.IsDuplicateKeyError(
		s.SaveRequestSignature(ctx, model.NewRequestSignatureDocument("sig-b", signer, 1_061, time.Minute)),
	))
}

func TestMarkStakeClaimedOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := testutil.RandomPubkey(t)
	require.NoError(t, s.SaveNewStake(ctx, testutil.CreateStakeDocument(t, owner, 0)))

	require.NoError(t, s.MarkStakeClaimed(ctx, owner, 0, 42))
	assert.True(t, db.IsNotFoundError(s.MarkStakeClaimed(ctx, owner, 0, 43)))

	doc, err := s.GetStake(ctx, owner, 0)
	require.NoError(t, err)
	assert.True(t, doc.Claimed)
	assert.Equal(t, int64(42), doc.ClaimedAt)
}

func TestTimeLocks(t *testing.T) {
	ctx := context.Background()
	s := New()

	docs, err := s.FindUnlockedStakes(ctx, 1_000, 10)
	require.NoError(t, err)
	assert.Nil(t, docs)

	for i, unlock := range []int64{500, 100, 1_000, 2_000} {
		id := model.StakeID(testutil.RandomPubkey(t), uint64(i))
		require.NoError(t, s.SaveNewTimeLock(ctx, model.NewTimeLockDocument(id, "s", uint64(i), unlock, "STAKE_UNLOCK")))
	}

	docs, err = s.FindUnlockedStakes(ctx, 1_000, 10)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, int64(100), docs[0].UnlockTime)
	assert.Equal(t, int64(1_000), docs[2].UnlockTime)

	docs, err = s.FindUnlockedStakes(ctx, 1_000, 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, s.DeleteTimeLock(ctx, docs[0].StakeID))
	assert.True(t, db.IsNotFoundError(s.DeleteTimeLock(ctx, docs[0].StakeID)))
}

func TestStakeTotals(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice, bob := testutil.RandomPubkey(t), testutil.RandomPubkey(t)

	a0 := testutil.CreateStakeDocument(t, alice, 0)
	a1 := testutil.CreateStakeDocument(t, alice, 1)
	b0 := testutil.CreateStakeDocument(t, bob, 0)
	for _, d := range []*model.StakeDocument{a0, a1, b0} {
		require.NoError(t, s.SaveNewStake(ctx, d))
	}
	require.NoError(t, s.MarkStakeClaimed(ctx, alice, 1, 1))

	totals, err := s.CalculateStakeTotals(ctx, &alice)
	require.NoError(t, err)
	assert.Equal(t, a0.DepositAmount, totals.TotalStaked)
	assert.Equal(t, uint64(1), totals.ActiveStakes)
	assert.Equal(t, a1.DepositAmount, totals.TotalClaimed)
	assert.Equal(t, a1.RewardAmount, totals.RewardsPaid)
	assert.Equal(t, a0.RewardAmount, totals.PendingRewards)

	overall, err := s.CalculateStakeTotals(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, a0.DepositAmount+b0.DepositAmount, overall.TotalStaked)
	assert.Equal(t, uint64(2), overall.ActiveStakes)

	perStaker, err := s.CalculateStakerTotals(ctx)
	require.NoError(t, err)
	assert.Len(t, perStaker, 2)
}

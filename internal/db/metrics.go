package db

import (
	"context"
	"time"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/types"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.run("WithTransaction", func() error {
		return d.db.WithTransaction(ctx, fn)
	})
}

func (d *DbWithMetrics) GetGlobalConfig(ctx context.Context) (result *model.GlobalConfigDocument, err error) {
	//nolint:errcheck
	d.run("GetGlobalConfig", func() error {
		result, err = d.db.GetGlobalConfig(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) InsertGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	return d.run("InsertGlobalConfig", func() error {
		return d.db.InsertGlobalConfig(ctx, doc)
	})
}

func (d *DbWithMetrics) UpdateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	return d.run("UpdateGlobalConfig", func() error {
		return d.db.UpdateGlobalConfig(ctx, doc)
	})
}

func (d *DbWithMetrics) GetStakeCounter(ctx context.Context, staker types.Pubkey) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetStakeCounter", func() error {
		result, err = d.db.GetStakeCounter(ctx, staker)
		return err
	})
	return
}

func (d *DbWithMetrics) AllocateStakeIndex(ctx context.Context, staker types.Pubkey) (result uint64, err error) {
	//nolint:errcheck
	d.run("AllocateStakeIndex", func() error {
		result, err = d.db.AllocateStakeIndex(ctx, staker)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveNewStake(ctx context.Context, doc *model.StakeDocument) error {
	return d.run("SaveNewStake", func() error {
		return d.db.SaveNewStake(ctx, doc)
	})
}

func (d *DbWithMetrics) GetStake(ctx context.Context, staker types.Pubkey, index uint64) (result *model.StakeDocument, err error) {
	//nolint:errcheck
	d.run("GetStake", func() error {
		result, err = d.db.GetStake(ctx, staker, index)
		return err
	})
	return
}

func (d *DbWithMetrics) GetStakesByStaker(
	ctx context.Context, staker types.Pubkey, fromIndex uint64, limit int64,
) (result []*model.StakeDocument, err error) {
	//nolint:errcheck
	d.run("GetStakesByStaker", func() error {
		result, err = d.db.GetStakesByStaker(ctx, staker, fromIndex, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) MarkStakeClaimed(ctx context.Context, staker types.Pubkey, index uint64, claimedAt int64) error {
	return d.run("MarkStakeClaimed", func() error {
		return d.db.MarkStakeClaimed(ctx, staker, index, claimedAt)
	})
}

func (d *DbWithMetrics) SaveNewTimeLock(ctx context.Context, doc *model.TimeLockDocument) error {
	return d.run("SaveNewTimeLock", func() error {
		return d.db.SaveNewTimeLock(ctx, doc)
	})
}

func (d *DbWithMetrics) FindUnlockedStakes(ctx context.Context, now int64, limit uint64) (result []model.TimeLockDocument, err error) {
	//nolint:errcheck
	d.run("FindUnlockedStakes", func() error {
		result, err = d.db.FindUnlockedStakes(ctx, now, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) DeleteTimeLock(ctx context.Context, stakeID string) error {
	return d.run("DeleteTimeLock", func() error {
		return d.db.DeleteTimeLock(ctx, stakeID)
	})
}

func (d *DbWithMetrics) SaveNewMint(ctx context.Context, doc *model.MintDocument) error {
	return d.run("SaveNewMint", func() error {
		return d.db.SaveNewMint(ctx, doc)
	})
}

func (d *DbWithMetrics) GetMint(ctx context.Context, address types.Pubkey) (result *types.Mint, err error) {
	//nolint:errcheck
	d.run("GetMint", func() error {
		result, err = d.db.GetMint(ctx, address)
		return err
	})
	return
}

func (d *DbWithMetrics) IncreaseMintSupply(ctx context.Context, address types.Pubkey, amount uint64) error {
	return d.run("IncreaseMintSupply", func() error {
		return d.db.IncreaseMintSupply(ctx, address, amount)
	})
}

func (d *DbWithMetrics) SaveNewTokenAccount(ctx context.Context, doc *model.TokenAccountDocument) error {
	return d.run("SaveNewTokenAccount", func() error {
		return d.db.SaveNewTokenAccount(ctx, doc)
	})
}

func (d *DbWithMetrics) GetTokenAccount(ctx context.Context, address types.Pubkey) (result *types.TokenAccount, err error) {
	//nolint:errcheck
	d.run("GetTokenAccount", func() error {
		result, err = d.db.GetTokenAccount(ctx, address)
		return err
	})
	return
}

func (d *DbWithMetrics) DebitTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error {
	return d.run("DebitTokenAccount", func() error {
		return d.db.DebitTokenAccount(ctx, address, amount)
	})
}

func (d *DbWithMetrics) CreditTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error {
	return d.run("CreditTokenAccount", func() error {
		return d.db.CreditTokenAccount(ctx, address, amount)
	})
}

func (d *DbWithMetrics) CalculateStakeTotals(ctx context.Context, staker *types.Pubkey) (result *model.StakeTotals, err error) {
	//nolint:errcheck
	d.run("CalculateStakeTotals", func() error {
		result, err = d.db.CalculateStakeTotals(ctx, staker)
		return err
	})
	return
}

func (d *DbWithMetrics) CalculateStakerTotals(ctx context.Context) (result []*model.StakerStatsDocument, err error) {
	//nolint:errcheck
	d.run("CalculateStakerTotals", func() error {
		result, err = d.db.CalculateStakerTotals(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error {
	return d.run("UpsertOverallStats", func() error {
		return d.db.UpsertOverallStats(ctx, doc)
	})
}

func (d *DbWithMetrics) GetOverallStats(ctx context.Context) (result *model.OverallStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetOverallStats", func() error {
		result, err = d.db.GetOverallStats(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertStakerStats(ctx context.Context, doc *model.StakerStatsDocument) error {
	return d.run("UpsertStakerStats", func() error {
		return d.db.UpsertStakerStats(ctx, doc)
	})
}

func (d *DbWithMetrics) GetStakerStats(ctx context.Context, staker types.Pubkey) (result *model.StakerStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetStakerStats", func() error {
		result, err = d.db.GetStakerStats(ctx, staker)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveRequestSignature(ctx context.Context, doc *model.RequestSignatureDocument) error {
	return d.run("SaveRequestSignature", func() error {
		return d.db.SaveRequestSignature(ctx, doc)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}

package services

import (
	"context"
	"fmt"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

// GetGlobalConfig returns the deployment config, the zero config before
// initialization.
func (s *Service) GetGlobalConfig(ctx context.Context) (*types.GlobalConfig, error) {
	return s.loadGlobalConfig(ctx)
}

func (s *Service) GetStake(ctx context.Context, staker types.Pubkey, index uint64) (*model.StakeDocument, error) {
	return s.db.GetStake(ctx, staker, index)
}

// GetStakeLayout returns the stake in its persisted account layout.
func (s *Service) GetStakeLayout(ctx context.Context, staker types.Pubkey, index uint64) ([]byte, error) {
	doc, err := s.db.GetStake(ctx, staker, index)
	if err != nil {
		return nil, err
	}
	record, err := doc.ToStakeRecord()
	if err != nil {
		return nil, err
	}
	return record.MarshalBinary()
}

// PageLimit caps limit by the configured pagination limit. Zero or
// negative selects the maximum.
func (s *Service) PageLimit(limit int64) int64 {
	maxLimit := s.cfg.Db.MaxPaginationLimit
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}

// ListStakes pages through the stakes of staker in index order.
func (s *Service) ListStakes(
	ctx context.Context, staker types.Pubkey, fromIndex uint64, limit int64,
) ([]*model.StakeDocument, error) {
	return s.db.GetStakesByStaker(ctx, staker, fromIndex, s.PageLimit(limit))
}

type StakerSummary struct {
	Staker     types.Pubkey
	StakeCount uint64
	model.StakeTotals
}

func (s *Service) GetStakerSummary(ctx context.Context, staker types.Pubkey) (*StakerSummary, error) {
	count, err := s.db.GetStakeCounter(ctx, staker)
	if err != nil {
		return nil, fmt.Errorf("failed to get stake counter: %w", err)
	}
	totals, err := s.db.CalculateStakeTotals(ctx, &staker)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate staker totals: %w", err)
	}
	return &StakerSummary{
		Staker:      staker,
		StakeCount:  count,
		StakeTotals: *totals,
	}, nil
}

type VaultStats struct {
	VaultAuthority types.Pubkey
	Vault          types.Pubkey
	RewardsPool    types.Pubkey
	Mint           types.Pubkey
	// Balance is held by the principal vault.
	Balance        uint64
	RewardsBalance uint64
	// PrincipalLocked is owed back to stakers of unclaimed stakes.
	PrincipalLocked uint64
	// RewardsOwed is owed as reward on unclaimed stakes.
	RewardsOwed uint64
	// Surplus is the pool balance beyond the rewards still owed.
	Surplus            uint64
	MonthlyCap         uint64
	MonthlyDistributed uint64
	EpochStart         int64
	EpochEnd           int64
	PausedStaking      bool
}

func (s *Service) GetVaultStats(ctx context.Context) (*VaultStats, error) {
	cfg, err := s.loadGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.AcceptedAsset.IsZero() {
		return nil, types.NewNotFoundError("staking program is not initialized")
	}
	authority, _, err := s.addresses.VaultAuthority()
	if err != nil {
		return nil, err
	}
	address, err := s.addresses.Vault(cfg.AcceptedAsset)
	if err != nil {
		return nil, err
	}
	pool, err := s.addresses.RewardsPool(cfg.AcceptedAsset)
	if err != nil {
		return nil, err
	}
	stats := &VaultStats{
		VaultAuthority:     authority,
		Vault:              address,
		RewardsPool:        pool,
		Mint:               cfg.AcceptedAsset,
		MonthlyCap:         cfg.MonthlyCap,
		MonthlyDistributed: cfg.MonthlyDistributed,
		EpochStart:         cfg.EpochStart,
		EpochEnd:           cfg.EpochStart + EpochSeconds,
		PausedStaking:      cfg.PausedStaking,
	}
	if stats.Balance, err = s.custodyBalance(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to load vault: %w", err)
	}
	if stats.RewardsBalance, err = s.custodyBalance(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to load rewards pool: %w", err)
	}

	totals, err := s.db.CalculateStakeTotals(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stake totals: %w", err)
	}
	stats.PrincipalLocked = totals.TotalStaked
	stats.RewardsOwed = totals.PendingRewards
	if stats.RewardsBalance > stats.RewardsOwed {
		stats.Surplus = stats.RewardsBalance - stats.RewardsOwed
	}
	return stats, nil
}

// custodyBalance reads a program held account. Deployments initialized
// before it existed report zero.
func (s *Service) custodyBalance(ctx context.Context, address types.Pubkey) (uint64, error) {
	account, err := s.db.GetTokenAccount(ctx, address)
	switch {
	case err == nil:
		return account.Amount, nil
	case db.IsNotFoundError(err):
		return 0, nil
	default:
		return 0, err
	}
}

// GetOverallStats returns the totals kept by the stats poller, computing
// them on the spot before its first run.
func (s *Service) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	doc, err := s.db.GetOverallStats(ctx)
	if err == nil {
		return doc, nil
	}
	if !db.IsNotFoundError(err) {
		return nil, err
	}
	totals, err := s.db.CalculateStakeTotals(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stake totals: %w", err)
	}
	stakers, err := s.db.CalculateStakerTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate staker totals: %w", err)
	}
	return &model.OverallStatsDocument{
		ID:          model.OverallStatsID,
		StakeTotals: *totals,
		Stakers:     uint64(len(stakers)),
		LastUpdated: s.clock.Now(),
	}, nil
}

func (s *Service) Healthcheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}

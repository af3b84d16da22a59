package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/rewards"
	"github.com/skorlabs/skorstaking/internal/types"
)

// EpochSeconds is the length of the window the monthly cap applies to.
const EpochSeconds int64 = 30 * types.SecondsPerDay

type ClaimRequest struct {
	Caller types.Pubkey
	Staker types.Pubkey
	Index  uint64
	// UserTokenAccount defaults to the staker's associated account, which is
	// opened if missing.
	UserTokenAccount *types.Pubkey
}

type ClaimResult struct {
	Staker             types.Pubkey
	Index              uint64
	Principal          uint64
	Reward             uint64
	ClaimedAt          int64
	MonthlyDistributed uint64
	EpochStart         int64
}

// Claim returns the principal of an unlocked stake from the vault and pays
// its reward from the rewards pool. The two transfers, the claimed flag and
// the epoch accounting commit together.
func (s *Service) Claim(ctx context.Context, req *ClaimRequest) (result *ClaimResult, err error) {
	defer func() { recordOperation("claim", err) }()

	now := s.clock.Now()
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.db.GetStake(ctx, req.Staker, req.Index)
		if err != nil {
			return err
		}
		stake, err := doc.ToStakeRecord()
		if err != nil {
			return err
		}
		if stake.Staker != req.Caller {
			return types.ErrUnauthorized
		}
		if stake.Claimed {
			return types.ErrAlreadyClaimed
		}
		if now < stake.UnlockTime() {
			return types.ErrStillLocked
		}

		// re-read on every claim, the epoch is shared by all stakers
		cfg, err := s.loadGlobalConfig(ctx)
		if err != nil {
			return err
		}
		vault, err := s.verifyVault(ctx, cfg.AcceptedAsset)
		if err != nil {
			return err
		}
		pool, err := s.verifyRewardsPool(ctx, cfg.AcceptedAsset)
		if err != nil {
			return err
		}
		if pool.Amount < stake.RewardAmount {
			return types.ErrInsufficientRewards
		}
		if doc.Mint != cfg.AcceptedAsset.String() {
			return types.ErrInvalidMint
		}
		destination, err := s.claimDestination(ctx, req, cfg.AcceptedAsset)
		if err != nil {
			return err
		}

		if now > cfg.EpochStart+EpochSeconds {
			log.Ctx(ctx).Info().
				Int64("previous_epoch_start", cfg.EpochStart).
				Uint64("previous_distributed", cfg.MonthlyDistributed).
				Msg("rolling over distribution epoch")
			cfg.MonthlyDistributed = 0
			cfg.EpochStart = now
		}

		capacity, err := rewards.CapInBaseUnits(cfg.MonthlyCap)
		if err != nil {
			return err
		}
		distributed, err := rewards.CheckedAdd(cfg.MonthlyDistributed, stake.RewardAmount)
		if err != nil {
			return err
		}
		if distributed > capacity {
			return types.ErrMonthlyCapReached
		}

		authority, _, err := s.addresses.VaultAuthority()
		if err != nil {
			return err
		}
		if err := custody.Transfer(
			ctx, s.db, vault.Address, destination.Address, authority, stake.DepositAmount,
		); err != nil {
			return fmt.Errorf("failed to return principal: %w", err)
		}
		if err := custody.Transfer(
			ctx, s.db, pool.Address, destination.Address, authority, stake.RewardAmount,
		); err != nil {
			if errors.Is(err, custody.ErrInsufficientFunds) {
				return types.ErrInsufficientRewards
			}
			return fmt.Errorf("failed to pay reward: %w", err)
		}

		if err := s.db.MarkStakeClaimed(ctx, req.Staker, req.Index, now); err != nil {
			if db.IsNotFoundError(err) {
				return types.ErrAlreadyClaimed
			}
			return fmt.Errorf("failed to mark stake claimed: %w", err)
		}
		cfg.MonthlyDistributed = distributed
		if err := s.saveGlobalConfig(ctx, cfg); err != nil {
			return fmt.Errorf("failed to update distribution: %w", err)
		}
		// the unlock checker may already have consumed it
		if err := s.db.DeleteTimeLock(ctx, doc.ID); err != nil && !db.IsNotFoundError(err) {
			return fmt.Errorf("failed to delete time lock: %w", err)
		}

		result = &ClaimResult{
			Staker:             stake.Staker,
			Index:              stake.Index,
			Principal:          stake.DepositAmount,
			Reward:             stake.RewardAmount,
			ClaimedAt:          now,
			MonthlyDistributed: cfg.MonthlyDistributed,
			EpochStart:         cfg.EpochStart,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRewardsDistributed(result.Reward)
	metrics.RecordMonthlyDistributed(result.MonthlyDistributed)
	log.Ctx(ctx).Info().
		Stringer("staker", result.Staker).
		Uint64("index", result.Index).
		Uint64("principal", result.Principal).
		Uint64("reward", result.Reward).
		Uint64("monthly_distributed", result.MonthlyDistributed).
		Msg("stake claimed")

	s.emitEvent(ctx, &types.StakingEvent{
		EventType:     types.EventStakeClaimed,
		Staker:        result.Staker.String(),
		Index:         result.Index,
		DepositAmount: result.Principal,
		RewardAmount:  result.Reward,
		Timestamp:     now,
	})
	return result, nil
}

// claimDestination resolves the account receiving the payout. The
// associated account is opened on first use; an explicit account must
// already exist.
func (s *Service) claimDestination(
	ctx context.Context, req *ClaimRequest, mint types.Pubkey,
) (*types.TokenAccount, error) {
	var (
		account *types.TokenAccount
		err     error
	)
	if req.UserTokenAccount == nil {
		account, err = s.ensureTokenAccount(ctx, req.Staker, mint)
	} else {
		account, err = s.db.GetTokenAccount(ctx, *req.UserTokenAccount)
	}
	if err != nil {
		return nil, err
	}
	if account.Mint != mint {
		return nil, types.ErrInvalidMint
	}
	if account.Owner != req.Staker {
		return nil, types.ErrUnauthorized
	}
	return account, nil
}

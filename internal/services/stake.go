package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/rewards"
	"github.com/skorlabs/skorstaking/internal/types"
)

type StakeRequest struct {
	Staker   types.Pubkey
	Amount   uint64
	Duration types.StakingDuration
	// Mint is the asset the staker presents; it must be the accepted one.
	Mint types.Pubkey
	// UserTokenAccount defaults to the staker's associated account.
	UserTokenAccount *types.Pubkey
}

// Stake locks req.Amount in the vault for the chosen term and records the
// reward owed at unlock. It returns the new stake.
func (s *Service) Stake(ctx context.Context, req *StakeRequest) (stake *model.StakeDocument, err error) {
	defer func() { recordOperation("stake", err) }()

	now := s.clock.Now()
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		cfg, err := s.loadGlobalConfig(ctx)
		if err != nil {
			return err
		}
		if cfg.PausedStaking {
			return types.ErrStakingPaused
		}

		mint, err := s.db.GetMint(ctx, req.Mint)
		if err != nil {
			if db.IsNotFoundError(err) {
				return types.ErrInvalidMint
			}
			return fmt.Errorf("failed to load mint %s: %w", req.Mint, err)
		}
		if mint.Decimals != rewards.Decimals {
			return types.ErrInvalidDecimals
		}
		if req.Amount < rewards.MinimumStake {
			return types.ErrBelowMinimum
		}

		source, err := s.loadUserAccount(ctx, req)
		if err != nil {
			return err
		}
		if source.Owner != req.Staker {
			return types.ErrUnauthorized
		}
		if source.Amount < req.Amount {
			return types.ErrInsufficientTokenBalance
		}
		if req.Mint != cfg.AcceptedAsset {
			return types.ErrUnauthorizedToken
		}
		if source.Mint != req.Mint {
			return types.ErrInvalidMint
		}

		quote, err := rewards.QuoteStake(req.Amount, req.Duration)
		if err != nil {
			return err
		}

		vault, err := s.verifyVault(ctx, cfg.AcceptedAsset)
		if err != nil {
			return err
		}
		if err := custody.Transfer(ctx, s.db, source.Address, vault.Address, req.Staker, req.Amount); err != nil {
			if errors.Is(err, custody.ErrInsufficientFunds) {
				return types.ErrInsufficientTokenBalance
			}
			return fmt.Errorf("failed to transfer stake to vault: %w", err)
		}

		index, err := s.db.AllocateStakeIndex(ctx, req.Staker)
		if err != nil {
			return fmt.Errorf("failed to allocate stake index: %w", err)
		}
		record := &types.StakeRecord{
			Staker:          req.Staker,
			DepositAmount:   req.Amount,
			RewardAmount:    quote.RewardAmount,
			StartTime:       now,
			DurationSeconds: quote.DurationSeconds,
			Claimed:         false,
			Tier:            quote.Tier,
			Index:           index,
		}
		stake = model.NewStakeDocument(record, quote.ApyBasisPoints, req.Mint)
		if err := s.db.SaveNewStake(ctx, stake); err != nil {
			return fmt.Errorf("failed to save stake: %w", err)
		}
		if err := s.db.SaveNewTimeLock(ctx, model.NewTimeLockDocument(
			stake.ID, stake.Staker, index, stake.UnlockTime, types.StakeUnlockTimeLockType.String(),
		)); err != nil {
			return fmt.Errorf("failed to save unlock time lock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("staker", stake.Staker).
		Uint64("index", stake.Index).
		Uint64("amount", stake.DepositAmount).
		Uint64("reward", stake.RewardAmount).
		Stringer("tier", stake.Tier).
		Int64("unlock_time", stake.UnlockTime).
		Msg("stake created")

	s.emitEvent(ctx, &types.StakingEvent{
		EventType:     types.EventStakeCreated,
		Staker:        stake.Staker,
		Index:         stake.Index,
		DepositAmount: stake.DepositAmount,
		RewardAmount:  stake.RewardAmount,
		Tier:          stake.Tier,
		UnlockTime:    stake.UnlockTime,
		Timestamp:     now,
	})
	return stake, nil
}

// loadUserAccount reads the staker's source account. A missing account has
// nothing to spend.
func (s *Service) loadUserAccount(ctx context.Context, req *StakeRequest) (*types.TokenAccount, error) {
	address, err := userTokenAccount(req.Staker, req.Mint, req.UserTokenAccount)
	if err != nil {
		return nil, err
	}
	account, err := s.db.GetTokenAccount(ctx, address)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.ErrInsufficientTokenBalance
		}
		return nil, fmt.Errorf("failed to load token account %s: %w", address, err)
	}
	return account, nil
}

// verifyVault re-derives the principal vault of mint and checks it is held
// by the vault authority.
func (s *Service) verifyVault(ctx context.Context, mint types.Pubkey) (*types.TokenAccount, error) {
	address, err := s.addresses.Vault(mint)
	if err != nil {
		return nil, err
	}
	return s.verifyCustody(ctx, address, mint)
}

func (s *Service) verifyRewardsPool(ctx context.Context, mint types.Pubkey) (*types.TokenAccount, error) {
	address, err := s.addresses.RewardsPool(mint)
	if err != nil {
		return nil, err
	}
	return s.verifyCustody(ctx, address, mint)
}

func (s *Service) verifyCustody(
	ctx context.Context, address, mint types.Pubkey,
) (*types.TokenAccount, error) {
	authority, _, err := s.addresses.VaultAuthority()
	if err != nil {
		return nil, err
	}
	account, err := custody.VerifyVault(ctx, s.db, address, authority, mint)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.ErrInvalidVaultOwner
		}
		return nil, err
	}
	return account, nil
}

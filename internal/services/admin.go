package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/types"
)

// updateAsAdmin applies update to the config when caller is the stored
// admin.
func (s *Service) updateAsAdmin(
	ctx context.Context, caller types.Pubkey, update func(cfg *types.GlobalConfig),
) (*types.GlobalConfig, error) {
	var cfg *types.GlobalConfig
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = s.loadGlobalConfig(ctx)
		if err != nil {
			return err
		}
		if cfg.Admin.IsZero() || cfg.Admin != caller {
			return types.ErrUnauthorized
		}
		update(cfg)
		return s.saveGlobalConfig(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Service) SetPauseStaking(
	ctx context.Context, caller types.Pubkey, paused bool,
) (cfg *types.GlobalConfig, err error) {
	defer func() { recordOperation("set_pause_staking", err) }()

	cfg, err = s.updateAsAdmin(ctx, caller, func(cfg *types.GlobalConfig) {
		cfg.PausedStaking = paused
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Bool("paused", paused).Msg("staking pause updated")
	s.emitEvent(ctx, &types.StakingEvent{
		EventType: types.EventStakingPaused,
		Paused:    &paused,
		Timestamp: s.clock.Now(),
	})
	return cfg, nil
}

func (s *Service) SetMonthlyCap(
	ctx context.Context, caller types.Pubkey, monthlyCap uint64,
) (cfg *types.GlobalConfig, err error) {
	defer func() { recordOperation("set_monthly_cap", err) }()

	cfg, err = s.updateAsAdmin(ctx, caller, func(cfg *types.GlobalConfig) {
		cfg.MonthlyCap = monthlyCap
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint64("monthly_cap", monthlyCap).Msg("monthly cap updated")
	s.emitEvent(ctx, &types.StakingEvent{
		EventType:  types.EventMonthlyCapUpdated,
		MonthlyCap: &monthlyCap,
		Timestamp:  s.clock.Now(),
	})
	return cfg, nil
}

type FundRewardsRequest struct {
	Funder types.Pubkey
	Amount uint64
	// FromTokenAccount defaults to the funder's associated account.
	FromTokenAccount *types.Pubkey
}

// FundRewards tops up the rewards pool from any holder's account.
func (s *Service) FundRewards(
	ctx context.Context, req *FundRewardsRequest,
) (pool *types.TokenAccount, err error) {
	defer func() { recordOperation("fund_rewards", err) }()

	if req.Amount == 0 {
		return nil, types.NewValidationFailedError(errors.New("amount must be positive"))
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		cfg, err := s.loadGlobalConfig(ctx)
		if err != nil {
			return err
		}
		if cfg.AcceptedAsset.IsZero() {
			return types.NewErrorWithMsg(http.StatusConflict, types.BadRequest, "staking program is not initialized")
		}
		source, err := userTokenAccount(req.Funder, cfg.AcceptedAsset, req.FromTokenAccount)
		if err != nil {
			return err
		}
		pool, err = s.verifyRewardsPool(ctx, cfg.AcceptedAsset)
		if err != nil {
			return err
		}

		err = custody.Transfer(ctx, s.db, source, pool.Address, req.Funder, req.Amount)
		switch {
		case err == nil:
		case errors.Is(err, custody.ErrInsufficientFunds):
			return types.ErrInsufficientTokenBalance
		case errors.Is(err, custody.ErrOwnerMismatch):
			return types.ErrUnauthorized
		case errors.Is(err, custody.ErrMintMismatch):
			return types.ErrInvalidMint
		default:
			return fmt.Errorf("failed to fund rewards: %w", err)
		}

		pool, err = s.db.GetTokenAccount(ctx, pool.Address)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Stringer("funder", req.Funder).
		Uint64("amount", req.Amount).
		Uint64("pool_balance", pool.Amount).
		Msg("reward pool funded")

	s.emitEvent(ctx, &types.StakingEvent{
		EventType: types.EventRewardsFunded,
		Staker:    req.Funder.String(),
		Amount:    req.Amount,
		Timestamp: s.clock.Now(),
	})
	return pool, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/rewards"
	"github.com/skorlabs/skorstaking/internal/types"
)

// Initialize creates the deployment config with admin as its only authority
// and opens the principal vault and the rewards pool for the accepted asset.
// The asset must be a registered mint with the ledger precision, since a
// deployment can not be initialized twice.
func (s *Service) Initialize(
	ctx context.Context, admin, acceptedAsset types.Pubkey, monthlyCap uint64,
) (cfg *types.GlobalConfig, err error) {
	defer func() { recordOperation("initialize", err) }()

	now := s.clock.Now()
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.loadGlobalConfig(ctx)
		if err != nil {
			return err
		}
		if !current.Admin.IsZero() {
			return types.ErrAlreadyInitialized
		}

		mint, err := s.db.GetMint(ctx, acceptedAsset)
		if err != nil {
			if db.IsNotFoundError(err) {
				return types.ErrInvalidMint
			}
			return fmt.Errorf("failed to load mint %s: %w", acceptedAsset, err)
		}
		if mint.Decimals != rewards.Decimals {
			return types.ErrInvalidDecimals
		}

		authority, _, err := s.addresses.VaultAuthority()
		if err != nil {
			return err
		}
		if _, err := s.ensureTokenAccount(ctx, authority, acceptedAsset); err != nil {
			return fmt.Errorf("failed to open vault account: %w", err)
		}
		pool, err := s.addresses.RewardsPool(acceptedAsset)
		if err != nil {
			return err
		}
		if _, err := s.openTokenAccount(ctx, pool, authority, acceptedAsset); err != nil {
			return fmt.Errorf("failed to open rewards pool: %w", err)
		}

		cfg = &types.GlobalConfig{
			Admin:              admin,
			AcceptedAsset:      acceptedAsset,
			MonthlyCap:         monthlyCap,
			PausedStaking:      false,
			MonthlyDistributed: 0,
			EpochStart:         now,
		}
		if err := s.db.InsertGlobalConfig(ctx, model.NewGlobalConfigDocument(cfg)); err != nil {
			if db.IsDuplicateKeyError(err) {
				return types.ErrAlreadyInitialized
			}
			return fmt.Errorf("failed to save global config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Stringer("admin", admin).
		Stringer("accepted_asset", acceptedAsset).
		Uint64("monthly_cap", monthlyCap).
		Msg("staking program initialized")

	s.emitEvent(ctx, &types.StakingEvent{
		EventType:  types.EventInitialized,
		MonthlyCap: &monthlyCap,
		Timestamp:  now,
	})
	return cfg, nil
}

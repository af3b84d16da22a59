package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

var errDevMintDisabled = types.NewErrorWithMsg(
	http.StatusForbidden, types.Forbidden, "token minting is disabled for this deployment",
)

// RegisterMint adds an asset to the token ledger. Used to bootstrap local
// deployments.
func (s *Service) RegisterMint(
	ctx context.Context, address, authority types.Pubkey, decimals uint8,
) (*types.Mint, error) {
	if !s.cfg.Staking.AllowDevMint {
		return nil, errDevMintDisabled
	}
	mint := &types.Mint{
		Address:       address,
		Decimals:      decimals,
		MintAuthority: authority,
	}
	if err := s.db.SaveNewMint(ctx, model.NewMintDocument(mint)); err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict, types.BadRequest, fmt.Sprintf("mint %s already exists", address),
			)
		}
		return nil, fmt.Errorf("failed to save mint: %w", err)
	}
	log.Ctx(ctx).Info().
		Stringer("mint", address).
		Uint8("decimals", decimals).
		Msg("mint registered")
	return mint, nil
}

// MintTo credits amount of mint to the associated account of owner,
// opening it if needed. Only the mint authority may mint.
func (s *Service) MintTo(
	ctx context.Context, authority, mintAddress, owner types.Pubkey, amount uint64,
) (account *types.TokenAccount, err error) {
	if !s.cfg.Staking.AllowDevMint {
		return nil, errDevMintDisabled
	}
	if amount == 0 {
		return nil, types.NewValidationFailedError(errors.New("amount must be positive"))
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		mint, err := s.db.GetMint(ctx, mintAddress)
		if err != nil {
			return err
		}
		if mint.MintAuthority != authority {
			return types.ErrUnauthorized
		}
		account, err = s.ensureTokenAccount(ctx, owner, mintAddress)
		if err != nil {
			return err
		}
		if err := s.db.IncreaseMintSupply(ctx, mintAddress, amount); err != nil {
			return err
		}
		if err := s.db.CreditTokenAccount(ctx, account.Address, amount); err != nil {
			return err
		}
		account, err = s.db.GetTokenAccount(ctx, account.Address)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Stringer("mint", mintAddress).
		Stringer("owner", owner).
		Uint64("amount", amount).
		Msg("tokens minted")
	return account, nil
}

// GetTokenAccount reads a balance from the token ledger.
func (s *Service) GetTokenAccount(ctx context.Context, address types.Pubkey) (*types.TokenAccount, error) {
	return s.db.GetTokenAccount(ctx, address)
}

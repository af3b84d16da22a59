package services

import (
	"context"
	"errors"

	"github.com/skorlabs/skorstaking/internal/clock"
	"github.com/skorlabs/skorstaking/internal/config"
	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/queue"
	"github.com/skorlabs/skorstaking/internal/types"
)

// Service is the staking engine. Every state changing operation runs in a
// single storage transaction and publishes its event only after commit.
type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	clock     clock.Clock
	addresses *custody.Addresses
	publisher queue.Publisher
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	clk clock.Clock,
	publisher queue.Publisher,
) *Service {
	return &Service{
		cfg:       cfg,
		db:        db,
		clock:     clk,
		addresses: custody.NewAddresses(cfg.Staking.ProgramPubkey()),
		publisher: publisher,
	}
}

func (s *Service) Addresses() *custody.Addresses {
	return s.addresses
}

// loadGlobalConfig reads the deployment config. An uninitialized deployment
// reads as the zero config.
func (s *Service) loadGlobalConfig(ctx context.Context) (*types.GlobalConfig, error) {
	doc, err := s.db.GetGlobalConfig(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return &types.GlobalConfig{}, nil
		}
		return nil, err
	}
	return doc.ToGlobalConfig()
}

func (s *Service) saveGlobalConfig(ctx context.Context, cfg *types.GlobalConfig) error {
	return s.db.UpdateGlobalConfig(ctx, model.NewGlobalConfigDocument(cfg))
}

// ensureTokenAccount returns the account at the associated address of
// owner for mint, opening it with a zero balance when missing.
func (s *Service) ensureTokenAccount(
	ctx context.Context, owner, mint types.Pubkey,
) (*types.TokenAccount, error) {
	address, err := custody.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	return s.openTokenAccount(ctx, address, owner, mint)
}

// openTokenAccount returns the account at address, opening it for owner and
// mint with a zero balance when missing.
func (s *Service) openTokenAccount(
	ctx context.Context, address, owner, mint types.Pubkey,
) (*types.TokenAccount, error) {
	account, err := s.db.GetTokenAccount(ctx, address)
	if err == nil {
		return account, nil
	}
	if !db.IsNotFoundError(err) {
		return nil, err
	}
	account = &types.TokenAccount{
		Address: address,
		Mint:    mint,
		Owner:   owner,
	}
	if err := s.db.SaveNewTokenAccount(ctx, model.NewTokenAccountDocument(account)); err != nil {
		return nil, err
	}
	return account, nil
}

// userTokenAccount resolves the account a user moves funds through: the
// explicitly named one, or the associated account of owner for mint.
func userTokenAccount(owner, mint types.Pubkey, explicit *types.Pubkey) (types.Pubkey, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return custody.AssociatedTokenAddress(owner, mint)
}

func recordOperation(operation string, err error) {
	outcome := metrics.Success.String()
	if err != nil {
		outcome = metrics.Error.String()
		var se *types.StakingError
		if errors.As(err, &se) {
			outcome = se.Name
		}
	}
	metrics.RecordStakingOperation(operation, outcome)
}

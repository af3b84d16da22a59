package db

import (
	"context"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

type DbInterface interface {
	Ping(ctx context.Context) error
	// WithTransaction runs fn as one atomic unit: either every write made
	// through the ctx passed to fn is committed or none is. Calls nested in
	// fn join the outer transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// GetGlobalConfig returns NotFoundError before initialization.
	GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error)
	// InsertGlobalConfig returns DuplicateKeyError if the config exists.
	InsertGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error
	UpdateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error

	GetStakeCounter(ctx context.Context, staker types.Pubkey) (uint64, error)
	// AllocateStakeIndex returns the current count and increments it.
	AllocateStakeIndex(ctx context.Context, staker types.Pubkey) (uint64, error)
	SaveNewStake(ctx context.Context, doc *model.StakeDocument) error
	GetStake(ctx context.Context, staker types.Pubkey, index uint64) (*model.StakeDocument, error)
	// GetStakesByStaker lists stakes with index >= fromIndex in index order.
	GetStakesByStaker(
		ctx context.Context, staker types.Pubkey, fromIndex uint64, limit int64,
	) ([]*model.StakeDocument, error)
	// MarkStakeClaimed flips claimed to true. It fails with NotFoundError
	// when the stake is missing or already claimed.
	MarkStakeClaimed(ctx context.Context, staker types.Pubkey, index uint64, claimedAt int64) error

	SaveNewTimeLock(ctx context.Context, doc *model.TimeLockDocument) error
	FindUnlockedStakes(ctx context.Context, now int64, limit uint64) ([]model.TimeLockDocument, error)
	DeleteTimeLock(ctx context.Context, stakeID string) error

	SaveNewMint(ctx context.Context, doc *model.MintDocument) error
	GetMint(ctx context.Context, address types.Pubkey) (*types.Mint, error)
	IncreaseMintSupply(ctx context.Context, address types.Pubkey, amount uint64) error
	SaveNewTokenAccount(ctx context.Context, doc *model.TokenAccountDocument) error
	GetTokenAccount(ctx context.Context, address types.Pubkey) (*types.TokenAccount, error)
	// DebitTokenAccount fails with custody.ErrInsufficientFunds instead of
	// taking the balance below zero.
	DebitTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error
	CreditTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error

	// CalculateStakeTotals summarizes all stakes, or the stakes of staker
	// when it is not nil.
	CalculateStakeTotals(ctx context.Context, staker *types.Pubkey) (*model.StakeTotals, error)
	CalculateStakerTotals(ctx context.Context) ([]*model.StakerStatsDocument, error)
	UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error
	GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error)
	UpsertStakerStats(ctx context.Context, doc *model.StakerStatsDocument) error
	GetStakerStats(ctx context.Context, staker types.Pubkey) (*model.StakerStatsDocument, error)

	// SaveRequestSignature returns DuplicateKeyError when the signature was
	// already recorded and has not expired.
	SaveRequestSignature(ctx context.Context, doc *model.RequestSignatureDocument) error
}

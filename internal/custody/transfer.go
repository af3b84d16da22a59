package custody

import (
	"context"
	"errors"
	"fmt"

	"github.com/skorlabs/skorstaking/internal/types"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOwnerMismatch     = errors.New("authority does not own the source account")
	ErrMintMismatch      = errors.New("source and destination mints differ")
)

// Ledger is the token account storage a transfer runs against. Debit must
// fail with ErrInsufficientFunds instead of going below zero.
type Ledger interface {
	GetTokenAccount(ctx context.Context, address types.Pubkey) (*types.TokenAccount, error)
	DebitTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error
	CreditTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error
}

// Transfer moves amount from one token account to another. The caller is
// expected to run it inside a storage transaction so a failed credit rolls
// the debit back.
func Transfer(
	ctx context.Context, ledger Ledger, from, to, authority types.Pubkey, amount uint64,
) error {
	src, err := ledger.GetTokenAccount(ctx, from)
	if err != nil {
		return fmt.Errorf("failed to load source account %s: %w", from, err)
	}
	dst, err := ledger.GetTokenAccount(ctx, to)
	if err != nil {
		return fmt.Errorf("failed to load destination account %s: %w", to, err)
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if amount == 0 || from == to {
		return nil
	}
	if err := ledger.DebitTokenAccount(ctx, from, amount); err != nil {
		return err
	}
	return ledger.CreditTokenAccount(ctx, to, amount)
}

// VerifyVault checks that account exists, is held by the vault authority
// and holds mint.
func VerifyVault(
	ctx context.Context, ledger Ledger, account, authority, mint types.Pubkey,
) (*types.TokenAccount, error) {
	vault, err := ledger.GetTokenAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	if vault.Owner != authority || vault.Mint != mint {
		return nil, types.ErrInvalidVaultOwner
	}
	return vault, nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/observability/tracing"
	"github.com/skorlabs/skorstaking/internal/rewards"
	"github.com/skorlabs/skorstaking/internal/types"
)

// MintTokensCmd bootstraps the token ledger of a local deployment. The mint
// is registered with the signer as authority on first use.
func MintTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint-tokens [mint] [owner] [amount]",
		Short: "Mint test tokens to an owner's associated account",
		Args:  cobra.ExactArgs(3),
		RunE:  mintTokens,
	}

	return cmd
}

func mintTokens(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	mint, err := types.ParsePubkey(args[0])
	if err != nil {
		return fmt.Errorf("invalid mint: %w", err)
	}
	owner, err := types.ParsePubkey(args[1])
	if err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}
	amount, err := parseTokenAmount(args[2])
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	kp, err := rt.signingKeypair(cmd)
	if err != nil {
		return err
	}

	_, err = rt.db.GetMint(ctx, mint)
	switch {
	case err == nil:
	case db.IsNotFoundError(err):
		if _, err := rt.service.RegisterMint(ctx, mint, kp.Pubkey(), rewards.Decimals); err != nil {
			return err
		}
	default:
		return err
	}

	account, err := rt.service.MintTo(ctx, kp.Pubkey(), mint, owner, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "token account %s balance %d\n", account.Address, account.Amount)
	return nil
}

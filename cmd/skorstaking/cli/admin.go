package cli

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skorlabs/skorstaking/internal/observability/tracing"
	"github.com/skorlabs/skorstaking/internal/services"
	"github.com/skorlabs/skorstaking/internal/types"
)

// InitializeCmd sets up the deployment with the signing keypair as admin:
// ./skorstaking initialize <acceptedMint> <monthlyCap> --config config.yml
func InitializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize [acceptedMint] [monthlyCap]",
		Short: "Initialize the staking deployment; monthlyCap is in whole tokens",
		Args:  cobra.ExactArgs(2),
		RunE:  initialize,
	}

	return cmd
}

func initialize(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	mint, err := types.ParsePubkey(args[0])
	if err != nil {
		return err
	}
	monthlyCap, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid monthly cap: %w", err)
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.syncClock(ctx)

	kp, err := rt.signingKeypair(cmd)
	if err != nil {
		return err
	}
	cfg, err := rt.service.Initialize(ctx, kp.Pubkey(), mint, monthlyCap)
	if err != nil {
		return err
	}
	vault, err := rt.service.Addresses().Vault(mint)
	if err != nil {
		return err
	}
	pool, err := rt.service.Addresses().RewardsPool(mint)
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Stringer("admin", cfg.Admin).
		Stringer("vault", vault).
		Stringer("rewards_pool", pool).
		Msg("staking deployment initialized")
	return nil
}

func PauseStakingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause-staking [true|false]",
		Short: "Pause or resume new stakes",
		Args:  cobra.ExactArgs(1),
		RunE:  pauseStaking,
	}

	return cmd
}

func pauseStaking(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	paused, err := strconv.ParseBool(args[0])
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
	_, err = rt.service.SetPauseStaking(ctx, kp.Pubkey(), paused)
	return err
}

func SetMonthlyCapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-monthly-cap [monthlyCap]",
		Short: "Set the reward cap per epoch in whole tokens",
		Args:  cobra.ExactArgs(1),
		RunE:  setMonthlyCap,
	}

	return cmd
}

func setMonthlyCap(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	monthlyCap, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid monthly cap: %w", err)
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
	_, err = rt.service.SetMonthlyCap(ctx, kp.Pubkey(), monthlyCap)
	return err
}

func FundRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund-rewards [amount]",
		Short: "Move tokens from the signer's account into the reward pool",
		Args:  cobra.ExactArgs(1),
		RunE:  fundRewards,
	}
	cmd.Flags().String("from", "", "source token account, defaults to the signer's associated account")

	return cmd
}

func fundRewards(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	amount, err := parseTokenAmount(args[0])
	if err != nil {
		return err
	}
	req := &services.FundRewardsRequest{Amount: amount}
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		pk, err := types.ParsePubkey(from)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		req.FromTokenAccount = &pk
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
	req.Funder = kp.Pubkey()

	pool, err := rt.service.FundRewards(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rewards pool %s balance %d\n", pool.Address, pool.Amount)
	return nil
}

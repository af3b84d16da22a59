package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/skorlabs/skorstaking/internal/api"
	"github.com/skorlabs/skorstaking/internal/auth"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/observability/tracing"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the staking API server and background pollers",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	// initialize metrics with the metrics port from config
	metrics.Init(rt.cfg.Metrics.Port)

	verifier := auth.NewVerifier(
		rt.clock, rt.db, rt.cfg.Staking.SignatureMaxSkew, rt.cfg.Server.MaxBodyBytes,
	)
	server := api.New(&rt.cfg.Server, rt.service, verifier)

	var wg conc.WaitGroup
	wg.Go(func() { rt.service.RunUnlockChecker(ctx) })
	wg.Go(func() { rt.service.RunStatsPoller(ctx) })
	if rt.ntp != nil {
		wg.Go(func() { rt.service.RunClockSync(ctx, rt.ntp) })
	}
	wg.Go(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("api server shutdown failed")
		}
	})

	err = server.Start()
	if err != nil {
		log.Error().Err(err).Msg("api server stopped")
		stop()
	}
	wg.Wait()
	log.Info().Msg("server stopped")
	return err
}
